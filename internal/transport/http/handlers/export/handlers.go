package exporthandler

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/export"
	"corpdash/internal/domain/reward"
	"corpdash/internal/platform/metrics"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// managerKinds are the exports a manager may take, always narrowed to
// their department.
var managerKinds = []export.Kind{export.KindEmployeeKPI, export.KindEmployeeRewards}

type Handler struct {
	Export  *export.Service
	Metrics *metrics.Collector
	View    *view.Renderer
}

func NewHandler(exports *export.Service, collector *metrics.Collector, renderer *view.Renderer) *Handler {
	return &Handler{Export: exports, Metrics: collector, View: renderer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleCEO, auth.RoleManager)).Get("/export", h.handleExport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, ok := export.ParseKind(r.URL.Query().Get("type"))
	if !ok {
		h.View.Error(w, r, http.StatusBadRequest, "Unknown export type.")
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if principal.Is(auth.RoleManager) && !slices.Contains(managerKinds, kind) {
		h.View.Error(w, r, http.StatusForbidden, "This export is only available to the CEO.")
		return
	}

	now := time.Now()
	scope := export.Scope{
		Period:       shared.QueryPeriod(r, now),
		DepartmentID: shared.DepartmentScope(principal),
	}
	if pt, ok := reward.ParsePeriodType(r.URL.Query().Get("period_type")); ok {
		scope.PeriodType = pt
	}
	table, err := h.Export.Table(r.Context(), kind, scope)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, table); err != nil {
		shared.LogError(r, "write workbook", err)
		h.View.Error(w, r, http.StatusInternalServerError, "The export could not be generated.")
		return
	}
	h.Metrics.Export(string(kind))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, kind.Filename(now)))
	_, _ = w.Write(buf.Bytes())
}
