package kpihandler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/audit"
	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/export"
	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/period"
	"corpdash/internal/platform/metrics"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

const recentPeriods = 12

type Handler struct {
	KPI     *kpi.Service
	Org     *org.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
	View    *view.Renderer
}

func NewHandler(kpiService *kpi.Service, orgService *org.Service, recorder *audit.Service, collector *metrics.Collector, renderer *view.Renderer) *Handler {
	return &Handler{KPI: kpiService, Org: orgService, Audit: recorder, Metrics: collector, View: renderer}
}

type pageData struct {
	Period     time.Time
	Periods    []time.Time
	Employees  []org.Employee
	EmployeeID int64
	Summary    *kpi.Summary
	Scores     []kpi.EmployeeScore
	CanEdit    bool
}

type formData struct {
	Action       string
	IsNew        bool
	EmployeeName string
	Input        kpi.EntryInput
	Employees    []org.Employee
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpi", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.AllRoles...)).Get("/", h.handleView)
		r.With(middleware.RequireRole(auth.AllRoles...)).Get("/report.pdf", h.handleReport)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleCEO, auth.RoleManager))
			r.Get("/entries/new", h.handleNew)
			r.Post("/entries", h.handleCreate)
			r.Get("/entries/{id}/edit", h.handleEdit)
			r.Post("/entries/{id}", h.handleUpdate)
			r.Post("/entries/{id}/delete", h.handleDelete)
		})
	})
}

// handleView shows one employee's indicators for a period, or the
// department score overview when no employee is picked.
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	now := time.Now()
	data := pageData{
		Period:  shared.QueryPeriod(r, now),
		Periods: period.Recent(now, recentPeriods),
		CanEdit: principal.HasRole(auth.RoleCEO, auth.RoleManager),
	}

	employee, err := shared.ResolveEmployee(r.Context(), h.Org, principal, shared.QueryInt64(r, "employee_id"))
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	if !principal.Is(auth.RoleEmployee) {
		if data.Employees, err = h.Org.ListEmployees(r.Context(), org.Filter{DepartmentID: shared.DepartmentScope(principal)}); err != nil {
			h.View.Fail(w, r, err)
			return
		}
	}

	title := "KPI"
	if employee.ID != 0 {
		summary, err := h.KPI.Summary(r.Context(), employee.ID, data.Period)
		if err != nil {
			h.View.Fail(w, r, err)
			return
		}
		summary.EmployeeName = employee.FullName()
		data.Summary = &summary
		data.EmployeeID = employee.ID
		title = "KPI · " + summary.EmployeeName
	} else {
		if data.Scores, err = h.KPI.Scores(r.Context(), data.Period, shared.DepartmentScope(principal)); err != nil {
			h.View.Fail(w, r, err)
			return
		}
	}
	h.View.Render(w, r, http.StatusOK, "kpi", view.Page{Title: title, Data: data})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	employee, err := shared.ResolveEmployee(r.Context(), h.Org, principal, shared.QueryInt64(r, "employee_id"))
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	if employee.ID == 0 {
		h.View.Error(w, r, http.StatusBadRequest, "Pick an employee to print a KPI report.")
		return
	}
	at := shared.QueryPeriod(r, time.Now())
	summary, err := h.KPI.Summary(r.Context(), employee.ID, at)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	summary.EmployeeName = employee.FullName()

	var buf bytes.Buffer
	if err := export.WriteKPIReport(&buf, summary); err != nil {
		shared.LogError(r, "render kpi report", err)
		h.View.Error(w, r, http.StatusInternalServerError, "The report could not be generated.")
		return
	}
	h.Metrics.Export("kpi_report")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="kpi-%d-%s.pdf"`, employee.ID, period.Format(at)))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	employee, err := shared.ResolveEmployee(r.Context(), h.Org, principal, shared.QueryInt64(r, "employee_id"))
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	in := kpi.EntryInput{
		EmployeeID: employee.ID,
		Period:     shared.QueryPeriod(r, time.Now()),
		Weight:     1,
	}
	h.renderForm(w, r, http.StatusOK, 0, in, view.Page{Title: "New KPI entry"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	v := shared.NewValidator()
	in := parseForm(r, v)
	in.EmployeeID = v.Int64("employee_id", r.PostFormValue("employee_id"))
	in.Period = v.Period("period", r.PostFormValue("period"))
	if in.EmployeeID <= 0 {
		v.Add("employee_id", "is required")
	}
	if v.HasIssues() {
		h.renderInvalid(w, r, 0, in, v)
		return
	}
	if _, err := shared.ResolveEmployee(r.Context(), h.Org, principal, in.EmployeeID); err != nil {
		h.renderSaveError(w, r, 0, in, err)
		return
	}
	id, err := h.KPI.Save(r.Context(), in)
	if err != nil {
		h.renderSaveError(w, r, 0, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "kpi_entry", id, map[string]any{
		"employeeId": in.EmployeeID, "period": period.Format(in.Period), "indicator": in.IndicatorName,
	})
	http.Redirect(w, r, viewURL(in.EmployeeID, in.Period, "created"), http.StatusSeeOther)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}
	in := kpi.EntryInput{
		EmployeeID:    entry.EmployeeID,
		Period:        entry.Period,
		IndicatorName: entry.IndicatorName,
		Weight:        entry.Weight,
		TargetValue:   entry.TargetValue,
		ActualValue:   entry.ActualValue,
		Unit:          entry.Unit,
	}
	h.renderForm(w, r, http.StatusOK, entry.ID, in, view.Page{Title: "Edit KPI entry"})
}

// handleUpdate keeps the entry's employee and period; only the indicator
// columns are editable.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}
	v := shared.NewValidator()
	in := parseForm(r, v)
	in.EmployeeID = entry.EmployeeID
	in.Period = entry.Period
	if v.HasIssues() {
		h.renderInvalid(w, r, entry.ID, in, v)
		return
	}
	if err := h.KPI.Update(r.Context(), entry.ID, in); err != nil {
		h.renderSaveError(w, r, entry.ID, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "kpi_entry", entry.ID, map[string]any{
		"indicator": in.IndicatorName, "weight": in.Weight, "target": in.TargetValue, "actual": in.ActualValue,
	})
	http.Redirect(w, r, viewURL(entry.EmployeeID, entry.Period, "updated"), http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.KPI.Delete(r.Context(), entry.ID); err != nil {
		h.View.Fail(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "kpi_entry", entry.ID, nil)
	http.Redirect(w, r, viewURL(entry.EmployeeID, entry.Period, "deleted"), http.StatusSeeOther)
}

// load fetches the entry named in the URL and checks the principal may
// edit that employee's indicators.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (kpi.Entry, bool) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "KPI entry not found.")
		return kpi.Entry{}, false
	}
	entry, err := h.KPI.Get(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return kpi.Entry{}, false
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if _, err := shared.ResolveEmployee(r.Context(), h.Org, principal, entry.EmployeeID); err != nil {
		h.View.Fail(w, r, err)
		return kpi.Entry{}, false
	}
	return entry, true
}

func viewURL(employeeID int64, at time.Time, notice string) string {
	return fmt.Sprintf("/kpi?employee_id=%d&period=%s&notice=%s", employeeID, period.Format(at), notice)
}

func parseForm(r *http.Request, v *shared.Validator) kpi.EntryInput {
	in := kpi.EntryInput{
		IndicatorName: r.PostFormValue("indicator_name"),
		Weight:        v.Float("weight", r.PostFormValue("weight")),
		TargetValue:   v.OptionalFloat("target_value", r.PostFormValue("target_value")),
		ActualValue:   v.OptionalFloat("actual_value", r.PostFormValue("actual_value")),
		Unit:          r.PostFormValue("unit"),
	}
	v.Required("indicator_name", in.IndicatorName, "is required")
	return in
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, id int64, in kpi.EntryInput, v *shared.Validator) {
	h.renderForm(w, r, http.StatusBadRequest, id, in, view.Page{
		Title:       "KPI entry",
		Error:       "Please correct the highlighted fields.",
		FieldErrors: v.Fields(),
	})
}

func (h *Handler) renderSaveError(w http.ResponseWriter, r *http.Request, id int64, in kpi.EntryInput, err error) {
	v := shared.NewValidator()
	if rest := v.Merge(err); rest == nil {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "save kpi entry", err)
	}
	h.renderForm(w, r, status, id, in, view.Page{Title: "KPI entry", Error: msg})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, in kpi.EntryInput, page view.Page) {
	form := formData{Action: "/kpi/entries", IsNew: id == 0, Input: in}
	if id != 0 {
		form.Action = fmt.Sprintf("/kpi/entries/%d", id)
		if e, err := h.Org.GetEmployee(r.Context(), in.EmployeeID); err == nil {
			form.EmployeeName = e.FullName()
		}
	} else {
		principal, _ := middleware.GetPrincipal(r.Context())
		employees, err := h.Org.ListEmployees(r.Context(), org.Filter{DepartmentID: shared.DepartmentScope(principal)})
		if err != nil {
			h.View.Fail(w, r, err)
			return
		}
		form.Employees = employees
	}
	page.Data = form
	h.View.Render(w, r, status, "kpi_form", page)
}
