package dashboardhandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/dashboard"
	"corpdash/internal/domain/period"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

type Handler struct {
	Dashboard *dashboard.Service
	View      *view.Renderer
}

func NewHandler(service *dashboard.Service, renderer *view.Renderer) *Handler {
	return &Handler{Dashboard: service, View: renderer}
}

type pageData struct {
	dashboard.Overview
	Periods []time.Time
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.AllRoles...)).Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	now := time.Now()
	overview, err := h.Dashboard.Overview(r.Context(), principal, shared.QueryPeriod(r, now))
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, "dashboard", view.Page{
		Title: "Dashboard",
		Data:  pageData{Overview: overview, Periods: period.Recent(now, 12)},
	})
}
