package authhandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"corpdash/internal/domain/auth"
	"corpdash/internal/platform/metrics"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

type Handler struct {
	Auth    *auth.Service
	Metrics *metrics.Collector
	View    *view.Renderer
	Secure  bool
	// Limiter guards the credential check; nil disables it.
	Limiter func(http.Handler) http.Handler
}

func NewHandler(authService *auth.Service, collector *metrics.Collector, renderer *view.Renderer, secure bool) *Handler {
	return &Handler{Auth: authService, Metrics: collector, View: renderer, Secure: secure}
}

type loginData struct {
	Email  string
	Denied bool
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/login", h.handleLoginForm)
	if h.Limiter != nil {
		r.With(h.Limiter).Post("/login", h.handleLogin)
	} else {
		r.Post("/login", h.handleLogin)
	}
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetPrincipal(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	denied := r.URL.Query().Get("denied") == "1"
	if _, ok := middleware.GetPrincipal(r.Context()); ok && !denied {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.View.Render(w, r, http.StatusOK, "login", view.Page{Title: "Sign in", Data: loginData{Denied: denied}})
}

// handleLogin checks the credentials against the ceo, manager and employee
// accounts and starts a cookie session on success.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.View.Render(w, r, http.StatusBadRequest, "login", view.Page{
			Title: "Sign in",
			Error: "Email and password are required.",
			Data:  loginData{Email: email},
		})
		return
	}

	principal, token, err := h.Auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Metrics.Login("failure")
			zap.L().Info("login rejected", zap.String("ip", shared.ClientIP(r)), zap.String("requestId", middleware.GetRequestID(r.Context())))
			h.View.Render(w, r, http.StatusUnauthorized, "login", view.Page{
				Title: "Sign in",
				Error: auth.ErrInvalidCredentials.Error(),
				Data:  loginData{Email: email},
			})
			return
		}
		h.Metrics.Login("error")
		shared.LogError(r, "login", err)
		h.View.Error(w, r, http.StatusInternalServerError, "Sign in is unavailable right now. Please try again.")
		return
	}

	h.Metrics.Login("success")
	middleware.SetSession(w, token, h.Auth.TTL, h.Secure)
	zap.L().Info("login",
		zap.Int64("accountId", principal.ID),
		zap.String("role", principal.Role),
		zap.String("requestId", middleware.GetRequestID(r.Context())),
	)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w, h.Secure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
