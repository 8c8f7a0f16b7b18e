package audithandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/audit"
	"corpdash/internal/domain/auth"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/view"
)

const pageSize = 50

type Handler struct {
	Audit *audit.Service
	View  *view.Renderer
}

func NewHandler(recorder *audit.Service, renderer *view.Renderer) *Handler {
	return &Handler{Audit: recorder, View: renderer}
}

type pageData struct {
	Events     []audit.Event
	EntityType string
	Page       int
	PrevPage   int
	NextPage   int
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleCEO)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	filter := audit.Filter{EntityType: r.URL.Query().Get("entity_type")}

	// One extra row tells whether a next page exists.
	events, err := h.Audit.List(r.Context(), filter, pageSize+1, (page-1)*pageSize)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	data := pageData{EntityType: filter.EntityType, Page: page, PrevPage: page - 1}
	if len(events) > pageSize {
		events = events[:pageSize]
		data.NextPage = page + 1
	}
	data.Events = events
	h.View.Render(w, r, http.StatusOK, "audit", view.Page{Title: "Audit log", Data: data})
}
