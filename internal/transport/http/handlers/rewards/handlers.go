package rewardhandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/audit"
	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/period"
	"corpdash/internal/domain/reward"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

const recentPeriods = 24

type Handler struct {
	Rewards *reward.Service
	Org     *org.Service
	Audit   *audit.Service
	View    *view.Renderer
}

func NewHandler(rewards *reward.Service, orgService *org.Service, recorder *audit.Service, renderer *view.Renderer) *Handler {
	return &Handler{Rewards: rewards, Org: orgService, Audit: recorder, View: renderer}
}

type option struct {
	ID   int64
	Name string
}

type pageData struct {
	Subject     reward.Subject
	Path        string
	Param       string
	People      []option
	SubjectID   int64
	SubjectName string
	Period      time.Time
	Periods     []time.Time
	PeriodType  reward.PeriodType
	PeriodTypes []reward.PeriodType
	Reward      *reward.Reward
	History     []reward.Reward
	CanRecord   bool
}

// routes binds a reward subject to its URL segment and query parameter.
type routes struct {
	subject reward.Subject
	path    string
	param   string
}

var (
	employeeRoutes = routes{subject: reward.SubjectEmployee, path: "/rewards/employees", param: "employee_id"}
	managerRoutes  = routes{subject: reward.SubjectManager, path: "/rewards/managers", param: "manager_id"}
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(employeeRoutes.path, func(r chi.Router) {
		r.With(middleware.RequireRole(auth.AllRoles...)).Get("/", h.handleView(employeeRoutes))
		r.With(middleware.RequireRole(auth.RoleCEO)).Post("/", h.handleRecord(employeeRoutes))
		r.With(middleware.RequireRole(auth.RoleCEO)).Post("/{id}/delete", h.handleDelete(employeeRoutes))
	})
	r.Route(managerRoutes.path, func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleCEO, auth.RoleManager)).Get("/", h.handleView(managerRoutes))
		r.With(middleware.RequireRole(auth.RoleCEO)).Post("/", h.handleRecord(managerRoutes))
		r.With(middleware.RequireRole(auth.RoleCEO)).Post("/{id}/delete", h.handleDelete(managerRoutes))
	})
}

// handleView looks up the stored reward for the picked person, period and
// period type, and lists the reward history in scope.
func (h *Handler) handleView(rt routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := middleware.GetPrincipal(r.Context())
		now := time.Now()
		periodType, ok := reward.ParsePeriodType(r.URL.Query().Get("type"))
		if !ok {
			periodType = reward.PeriodMonthly
		}
		data := pageData{
			Subject:     rt.subject,
			Path:        rt.path,
			Param:       rt.param,
			Period:      shared.QueryPeriod(r, now),
			Periods:     period.Recent(now, recentPeriods),
			PeriodType:  periodType,
			PeriodTypes: reward.PeriodTypes,
			CanRecord:   principal.Is(auth.RoleCEO),
		}
		requested := shared.QueryInt64(r, rt.param)

		var err error
		if rt.subject == reward.SubjectEmployee {
			err = h.resolveEmployee(r, principal, requested, &data)
		} else {
			err = h.resolveManager(r, principal, requested, &data)
		}
		if err != nil {
			h.View.Fail(w, r, err)
			return
		}

		filter := reward.Filter{SubjectID: data.SubjectID, PeriodType: periodType}
		if data.SubjectID != 0 {
			if data.Reward, err = h.Rewards.Lookup(r.Context(), rt.subject, data.SubjectID, data.Period, periodType); err != nil {
				h.View.Fail(w, r, err)
				return
			}
		} else {
			filter.DepartmentID = shared.DepartmentScope(principal)
		}
		if data.History, err = h.Rewards.History(r.Context(), rt.subject, filter); err != nil {
			h.View.Fail(w, r, err)
			return
		}

		title := "Employee rewards"
		if rt.subject == reward.SubjectManager {
			title = "Manager rewards"
		}
		h.View.Render(w, r, http.StatusOK, "rewards", view.Page{Title: title, Data: data})
	}
}

func (h *Handler) resolveEmployee(r *http.Request, p auth.Principal, requested int64, data *pageData) error {
	e, err := shared.ResolveEmployee(r.Context(), h.Org, p, requested)
	if err != nil {
		return err
	}
	data.SubjectID, data.SubjectName = e.ID, e.FullName()
	if p.Is(auth.RoleEmployee) {
		return nil
	}
	employees, err := h.Org.ListEmployees(r.Context(), org.Filter{DepartmentID: shared.DepartmentScope(p)})
	if err != nil {
		return err
	}
	for _, e := range employees {
		data.People = append(data.People, option{ID: e.ID, Name: e.FullName() + " (" + e.Department + ")"})
	}
	return nil
}

func (h *Handler) resolveManager(r *http.Request, p auth.Principal, requested int64, data *pageData) error {
	m, err := shared.ResolveManager(r.Context(), h.Org, p, requested)
	if err != nil {
		return err
	}
	data.SubjectID, data.SubjectName = m.ID, m.FullName()
	if !p.Is(auth.RoleCEO) {
		return nil
	}
	managers, err := h.Org.ListManagers(r.Context(), org.Filter{})
	if err != nil {
		return err
	}
	for _, m := range managers {
		data.People = append(data.People, option{ID: m.ID, Name: m.FullName() + " (" + m.Department + ")"})
	}
	return nil
}

// handleRecord stores a payout computed elsewhere. Recording the same key
// twice replaces the amount.
func (h *Handler) handleRecord(rt routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := shared.NewValidator()
		subjectID := v.Int64(rt.param, r.PostFormValue(rt.param))
		at := v.Period("period", r.PostFormValue("period"))
		amount := v.Decimal("total_amount", r.PostFormValue("total_amount"))
		periodType, ok := reward.ParsePeriodType(r.PostFormValue("period_type"))
		if !ok {
			v.Add("period_type", "must be monthly, quarterly or yearly")
		}
		if subjectID <= 0 {
			v.Add(rt.param, "is required")
		}
		if v.HasIssues() {
			h.View.Error(w, r, http.StatusBadRequest, "The reward could not be recorded: "+firstIssue(v))
			return
		}

		id, err := h.Rewards.Record(r.Context(), rt.subject, subjectID, at, periodType, amount)
		if err != nil {
			h.View.Fail(w, r, err)
			return
		}
		shared.Audit(r, h.Audit, audit.ActionCreate, string(rt.subject)+"_reward", id, map[string]string{
			"period": period.Format(periodType.Normalize(at)), "periodType": string(periodType), "amount": amount.String(),
		})
		http.Redirect(w, r, fmt.Sprintf("%s?%s=%d&period=%s&type=%s&notice=recorded",
			rt.path, rt.param, subjectID, period.Format(at), periodType), http.StatusSeeOther)
	}
}

func (h *Handler) handleDelete(rt routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := shared.URLID(r, "id")
		if !ok {
			h.View.Error(w, r, http.StatusNotFound, "Reward not found.")
			return
		}
		if err := h.Rewards.Delete(r.Context(), rt.subject, id); err != nil {
			h.View.Fail(w, r, err)
			return
		}
		shared.Audit(r, h.Audit, audit.ActionDelete, string(rt.subject)+"_reward", id, nil)
		http.Redirect(w, r, rt.path+"?notice=deleted", http.StatusSeeOther)
	}
}

func firstIssue(v *shared.Validator) string {
	issues := v.Issues()
	if len(issues) == 0 {
		return ""
	}
	return issues[0].Field + " " + issues[0].Reason
}
