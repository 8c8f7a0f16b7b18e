package departmenthandler

import (
	"net/http"

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
	Departments []org.Department
}

type detailData struct {
	Department org.Department
	Managers   []org.Manager
	Employees  []org.Employee
}

type formData struct {
	Department org.Department
	IsNew      bool
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleCEO, auth.RoleManager)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleCEO, auth.RoleManager)).Get("/{id}", h.handleDetail)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleCEO))
			r.Get("/new", h.handleNew)
			r.Post("/", h.handleCreate)
			r.Get("/{id}/edit", h.handleEdit)
			r.Post("/{id}", h.handleUpdate)
			r.Post("/{id}/delete", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, message string) {
	departments, err := h.Org.ListDepartments(r.Context())
	if err != nil {
		shared.LogError(r, "list departments", err)
		h.View.Error(w, r, http.StatusInternalServerError, "Departments could not be loaded.")
		return
	}
	h.View.Render(w, r, status, "departments", view.Page{
		Title: "Departments",
		Error: message,
		Data:  listData{Departments: departments},
	})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Department not found.")
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if principal.Is(auth.RoleManager) && principal.DepartmentID != id {
		h.View.Error(w, r, http.StatusForbidden, "You can only view your own department.")
		return
	}

	dept, err := h.Org.GetDepartment(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	filter := org.Filter{DepartmentID: id}
	managers, err := h.Org.ListManagers(r.Context(), filter)
	if err != nil {
		shared.LogError(r, "list department managers", err)
		h.View.Error(w, r, http.StatusInternalServerError, "Department could not be loaded.")
		return
	}
	employees, err := h.Org.ListEmployees(r.Context(), filter)
	if err != nil {
		shared.LogError(r, "list department employees", err)
		h.View.Error(w, r, http.StatusInternalServerError, "Department could not be loaded.")
		return
	}

	h.View.Render(w, r, http.StatusOK, "department_detail", view.Page{
		Title: dept.Name,
		Data:  detailData{Department: dept, Managers: managers, Employees: employees},
	})
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	h.View.Render(w, r, http.StatusOK, "department_form", view.Page{
		Title: "New department",
		Data:  formData{IsNew: true},
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	id, err := h.Org.CreateDepartment(r.Context(), name)
	if err != nil {
		h.renderFormError(w, r, formData{Department: org.Department{Name: name}, IsNew: true}, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "department", id, map[string]string{"name": name})
	http.Redirect(w, r, "/departments?notice=created", http.StatusSeeOther)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Department not found.")
		return
	}
	dept, err := h.Org.GetDepartment(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, "department_form", view.Page{
		Title: "Edit department",
		Data:  formData{Department: dept},
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Department not found.")
		return
	}
	name := r.PostFormValue("name")
	if err := h.Org.UpdateDepartment(r.Context(), id, name); err != nil {
		h.renderFormError(w, r, formData{Department: org.Department{ID: id, Name: name}}, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "department", id, map[string]string{"name": name})
	http.Redirect(w, r, "/departments?notice=updated", http.StatusSeeOther)
}

// handleDelete leaves every row in place when the department is still in
// use and explains why on the list page.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Department not found.")
		return
	}
	if err := h.Org.DeleteDepartment(r.Context(), id); err != nil {
		status, msg := shared.UserMessage(err)
		if status == http.StatusInternalServerError {
			shared.LogError(r, "delete department", err)
		}
		h.renderList(w, r, status, msg)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "department", id, nil)
	http.Redirect(w, r, "/departments?notice=deleted", http.StatusSeeOther)
}

func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, data formData, err error) {
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "save department", err)
	}
	h.View.Render(w, r, status, "department_form", view.Page{Title: "Department", Error: msg, Data: data})
}
