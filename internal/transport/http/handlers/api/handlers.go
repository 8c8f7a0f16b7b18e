package apihandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/dashboard"
	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/period"
	"corpdash/internal/domain/reward"
	"corpdash/internal/transport/http/api"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
)

// Handler serves the read-only JSON views behind the KPI, reward and
// dashboard pages, with the same role scoping as the pages.
type Handler struct {
	KPI       *kpi.Service
	Rewards   *reward.Service
	Org       *org.Service
	Dashboard *dashboard.Service
}

func NewHandler(kpiService *kpi.Service, rewards *reward.Service, orgService *org.Service, dash *dashboard.Service) *Handler {
	return &Handler{KPI: kpiService, Rewards: rewards, Org: orgService, Dashboard: dash}
}

type kpiResponse struct {
	Period  string              `json:"period"`
	Summary *kpi.Summary        `json:"summary,omitempty"`
	Scores  []kpi.EmployeeScore `json:"scores,omitempty"`
}

type rewardResponse struct {
	Subject    reward.Subject    `json:"subject"`
	SubjectID  int64             `json:"subjectId,omitempty"`
	Period     string            `json:"period"`
	PeriodType reward.PeriodType `json:"periodType"`
	Reward     *reward.Reward    `json:"reward"`
	Display    string            `json:"display"`
	History    []reward.Reward   `json:"history"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RequireRoleAPI(auth.AllRoles...)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequireRoleAPI(auth.AllRoles...)).Get("/kpi", h.handleKPI)
		r.With(middleware.RequireRoleAPI(auth.AllRoles...)).Get("/rewards/{subject}", h.handleRewards)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	overview, err := h.Dashboard.Overview(r.Context(), principal, shared.QueryPeriod(r, time.Now()))
	if err != nil {
		fail(w, r, err)
		return
	}
	api.Success(w, overview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleKPI(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	at := shared.QueryPeriod(r, time.Now())
	employee, err := shared.ResolveEmployee(r.Context(), h.Org, principal, shared.QueryInt64(r, "employee_id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	out := kpiResponse{Period: period.Format(at)}
	if employee.ID != 0 {
		summary, err := h.KPI.Summary(r.Context(), employee.ID, at)
		if err != nil {
			fail(w, r, err)
			return
		}
		summary.EmployeeName = employee.FullName()
		out.Summary = &summary
	} else if out.Scores, err = h.KPI.Scores(r.Context(), at, shared.DepartmentScope(principal)); err != nil {
		fail(w, r, err)
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

// handleRewards accepts {subject} as employees or managers and the person
// as ?id=.
func (h *Handler) handleRewards(w http.ResponseWriter, r *http.Request) {
	var subject reward.Subject
	switch chi.URLParam(r, "subject") {
	case "employees":
		subject = reward.SubjectEmployee
	case "managers":
		subject = reward.SubjectManager
	default:
		api.Fail(w, http.StatusNotFound, "not_found", "unknown reward subject", middleware.GetRequestID(r.Context()))
		return
	}
	periodType := reward.PeriodMonthly
	if raw := r.URL.Query().Get("type"); raw != "" {
		pt, ok := reward.ParsePeriodType(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_period_type", "type must be monthly, quarterly or yearly", middleware.GetRequestID(r.Context()))
			return
		}
		periodType = pt
	}

	principal, _ := middleware.GetPrincipal(r.Context())
	at := periodType.Normalize(shared.QueryPeriod(r, time.Now()))
	requested := shared.QueryInt64(r, "id")

	var subjectID int64
	if subject == reward.SubjectEmployee {
		e, err := shared.ResolveEmployee(r.Context(), h.Org, principal, requested)
		if err != nil {
			fail(w, r, err)
			return
		}
		subjectID = e.ID
	} else {
		m, err := shared.ResolveManager(r.Context(), h.Org, principal, requested)
		if err != nil {
			fail(w, r, err)
			return
		}
		subjectID = m.ID
	}

	out := rewardResponse{Subject: subject, SubjectID: subjectID, Period: period.Format(at), PeriodType: periodType}
	filter := reward.Filter{SubjectID: subjectID, PeriodType: periodType}
	var err error
	if subjectID != 0 {
		if out.Reward, err = h.Rewards.Lookup(r.Context(), subject, subjectID, at, periodType); err != nil {
			fail(w, r, err)
			return
		}
	} else {
		filter.DepartmentID = shared.DepartmentScope(principal)
	}
	if out.History, err = h.Rewards.History(r.Context(), subject, filter); err != nil {
		fail(w, r, err)
		return
	}
	if out.History == nil {
		out.History = []reward.Reward{}
	}
	out.Display = reward.DisplayAmount(out.Reward)
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

var codes = map[int]string{
	http.StatusBadRequest: "invalid_request",
	http.StatusForbidden:  "forbidden",
	http.StatusNotFound:   "not_found",
	http.StatusConflict:   "conflict",
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := shared.UserMessage(err)
	code, ok := codes[status]
	if !ok {
		shared.LogError(r, "api request failed", err)
		code = "internal_error"
	}
	api.Fail(w, status, code, msg, middleware.GetRequestID(r.Context()))
}
