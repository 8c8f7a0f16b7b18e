package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"corpdash/internal/domain/audit"
	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/dashboard"
	"corpdash/internal/domain/export"
	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/project"
	"corpdash/internal/domain/reward"
	"corpdash/internal/platform/config"
	"corpdash/internal/platform/db"
	"corpdash/internal/platform/metrics"
	apihandler "corpdash/internal/transport/http/handlers/api"
	audithandler "corpdash/internal/transport/http/handlers/audit"
	authhandler "corpdash/internal/transport/http/handlers/auth"
	dashboardhandler "corpdash/internal/transport/http/handlers/dashboard"
	departmenthandler "corpdash/internal/transport/http/handlers/departments"
	employeehandler "corpdash/internal/transport/http/handlers/employees"
	exporthandler "corpdash/internal/transport/http/handlers/export"
	kpihandler "corpdash/internal/transport/http/handlers/kpi"
	managerhandler "corpdash/internal/transport/http/handlers/managers"
	projecthandler "corpdash/internal/transport/http/handlers/projects"
	rewardhandler "corpdash/internal/transport/http/handlers/rewards"
	taskhandler "corpdash/internal/transport/http/handlers/tasks"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/view"
)

const (
	loginWindow     = time.Minute
	shutdownTimeout = 10 * time.Second
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects to the database, applies migrations and the seed when
// configured, and assembles the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	router, err := newRouter(cfg, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("corpdash listening", zap.String("addr", a.Config.Addr), zap.String("environment", a.Config.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	zap.L().Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg config.Config, pool *pgxpool.Pool) (http.Handler, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}
	secure := cfg.IsProduction()

	orgService := org.NewService(org.NewStore(pool))
	projectService := project.NewService(project.NewStore(pool))
	kpiService := kpi.NewService(kpi.NewStore(pool))
	rewardService := reward.NewService(reward.NewStore(pool))
	authService := auth.NewService(auth.NewStore(pool), cfg.SessionSecret, cfg.SessionTTL)
	dashboardService := dashboard.NewService(dashboard.NewStore(pool), kpiService, rewardService)
	exportService := export.NewService(orgService, kpiService, rewardService)
	recorder := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(zap.L(), collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(secure))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Session(cfg.SessionSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if collector != nil {
		router.Handle("/metrics", collector.Handler())
	}

	router.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		apihandler.NewHandler(kpiService, rewardService, orgService, dashboardService).RegisterRoutes(r)
	})

	csrfFailure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zap.L().Warn("csrf check failed", zap.String("path", r.URL.Path), zap.String("requestId", middleware.GetRequestID(r.Context())))
		renderer.Error(w, r, http.StatusForbidden, "The form expired or is invalid. Nothing was changed; please reload the page and try again.")
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.CSRF([]byte(cfg.CSRFKey), secure, csrfFailure))

		authHandler := authhandler.NewHandler(authService, collector, renderer, secure)
		authHandler.Limiter = middleware.RateLimit(cfg.LoginRateLimit, loginWindow,
			middleware.WithKeyFunc(middleware.FormEmailOrIP("email")))
		authHandler.RegisterRoutes(r)

		dashboardhandler.NewHandler(dashboardService, renderer).RegisterRoutes(r)
		departmenthandler.NewHandler(orgService, recorder, renderer).RegisterRoutes(r)
		managerhandler.NewHandler(orgService, recorder, renderer).RegisterRoutes(r)
		employeehandler.NewHandler(orgService, recorder, renderer).RegisterRoutes(r)
		projecthandler.NewHandler(projectService, orgService, recorder, renderer).RegisterRoutes(r)
		taskhandler.NewHandler(projectService, orgService, recorder, renderer).RegisterRoutes(r)
		kpihandler.NewHandler(kpiService, orgService, recorder, collector, renderer).RegisterRoutes(r)
		rewardhandler.NewHandler(rewardService, orgService, recorder, renderer).RegisterRoutes(r)
		exporthandler.NewHandler(exportService, collector, renderer).RegisterRoutes(r)
		audithandler.NewHandler(recorder, renderer).RegisterRoutes(r)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			renderer.Error(w, r, http.StatusNotFound, "Page not found.")
		})
	})

	return router, nil
}
