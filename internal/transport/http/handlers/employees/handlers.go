package employeehandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/audit"
	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/org"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

type Handler struct {
	Org   *org.Service
	Audit *audit.Service
	View  *view.Renderer
}

func NewHandler(orgService *org.Service, recorder *audit.Service, renderer *view.Renderer) *Handler {
	return &Handler{Org: orgService, Audit: recorder, View: renderer}
}

type listData struct {
	Employees    []org.Employee
	Departments  []org.Department
	Managers     []org.Manager
	Search       string
	DepartmentID int64
	ManagerID    int64
	LockDept     bool
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleCEO, auth.RoleManager))
		r.Get("/", h.handleList)
		r.Get("/new", h.handleNew)
		r.Post("/", h.handleCreate)
		r.Get("/{id}/edit", h.handleEdit)
		r.Post("/{id}", h.handleUpdate)
		r.Post("/{id}/delete", h.handleDelete)
	})
}

// scope returns the department a manager is confined to, or 0 for the CEO.
func scope(r *http.Request) int64 {
	principal, _ := middleware.GetPrincipal(r.Context())
	if principal.Is(auth.RoleManager) {
		return principal.DepartmentID
	}
	return 0
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := org.Filter{
		Search:       r.URL.Query().Get("search"),
		DepartmentID: shared.QueryInt64(r, "department_id"),
		ManagerID:    shared.QueryInt64(r, "manager_id"),
	}
	locked := scope(r)
	if locked != 0 {
		filter.DepartmentID = locked
	}

	employees, err := h.Org.ListEmployees(r.Context(), filter)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	departments, err := h.Org.ListDepartments(r.Context())
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	managers, err := h.Org.ListManagers(r.Context(), org.Filter{DepartmentID: locked})
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, "employees", view.Page{
		Title: "Employees",
		Data: listData{
			Employees:    employees,
			Departments:  departments,
			Managers:     managers,
			Search:       filter.Search,
			DepartmentID: filter.DepartmentID,
			ManagerID:    filter.ManagerID,
			LockDept:     locked != 0,
		},
	})
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	in := shared.NewPersonInput(scope(r), time.Now())
	if in.DepartmentID == 0 {
		in.DepartmentID = shared.QueryInt64(r, "department_id")
	}
	h.renderForm(w, r, http.StatusOK, 0, in, view.Page{Title: "New employee"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	in := shared.ParsePersonForm(r, v)
	if locked := scope(r); locked != 0 {
		in.DepartmentID = locked
	}
	if v.HasIssues() {
		h.renderInvalid(w, r, 0, in, v)
		return
	}
	id, err := h.Org.CreateEmployee(r.Context(), in)
	if err != nil {
		h.renderSaveError(w, r, 0, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "employee", id, map[string]any{"email": in.Email, "departmentId": in.DepartmentID})
	http.Redirect(w, r, "/employees?notice=created", http.StatusSeeOther)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, e.ID, shared.EmployeeInput(e), view.Page{Title: "Edit " + e.FullName()})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	v := shared.NewValidator()
	in := shared.ParsePersonForm(r, v)
	if locked := scope(r); locked != 0 {
		in.DepartmentID = locked
	}
	if v.HasIssues() {
		h.renderInvalid(w, r, e.ID, in, v)
		return
	}
	if err := h.Org.UpdateEmployee(r.Context(), e.ID, in); err != nil {
		h.renderSaveError(w, r, e.ID, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "employee", e.ID, map[string]any{"email": in.Email, "departmentId": in.DepartmentID})
	http.Redirect(w, r, "/employees?notice=updated", http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.Org.DeleteEmployee(r.Context(), e.ID); err != nil {
		h.View.Fail(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "employee", e.ID, nil)
	http.Redirect(w, r, "/employees?notice=deleted", http.StatusSeeOther)
}

// load fetches the employee named in the URL and enforces the manager's
// department boundary. It writes the error page itself.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (org.Employee, bool) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Employee not found.")
		return org.Employee{}, false
	}
	e, err := h.Org.GetEmployee(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return org.Employee{}, false
	}
	if locked := scope(r); locked != 0 && e.DepartmentID != locked {
		h.View.Error(w, r, http.StatusForbidden, "You can only manage employees of your own department.")
		return org.Employee{}, false
	}
	return e, true
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, id int64, in org.PersonInput, v *shared.Validator) {
	h.renderForm(w, r, http.StatusBadRequest, id, in, view.Page{
		Title:       "Employee",
		Error:       "Please correct the highlighted fields.",
		FieldErrors: v.Fields(),
	})
}

func (h *Handler) renderSaveError(w http.ResponseWriter, r *http.Request, id int64, in org.PersonInput, err error) {
	v := shared.NewValidator()
	if rest := v.Merge(err); rest == nil {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "save employee", err)
	}
	h.renderForm(w, r, status, id, in, view.Page{Title: "Employee", Error: msg})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, in org.PersonInput, page view.Page) {
	locked := scope(r)
	departments, err := h.Org.ListDepartments(r.Context())
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	managers, err := h.Org.ListManagers(r.Context(), org.Filter{DepartmentID: locked})
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	in.Password = ""
	form := shared.PersonForm{
		Action:      "/employees",
		CancelURL:   "/employees",
		IsNew:       id == 0,
		ShowManager: true,
		LockDept:    locked != 0,
		Input:       in,
		Departments: departments,
		Managers:    managers,
	}
	if id != 0 {
		form.Action = fmt.Sprintf("/employees/%d", id)
	}
	page.Data = form
	h.View.Render(w, r, status, "person_form", page)
}
