package managerhandler

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
	Managers     []org.Manager
	Departments  []org.Department
	Search       string
	DepartmentID int64
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/managers", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleCEO))
		r.Get("/", h.handleList)
		r.Get("/new", h.handleNew)
		r.Post("/", h.handleCreate)
		r.Get("/{id}/edit", h.handleEdit)
		r.Post("/{id}", h.handleUpdate)
		r.Post("/{id}/delete", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := org.Filter{
		Search:       r.URL.Query().Get("search"),
		DepartmentID: shared.QueryInt64(r, "department_id"),
	}
	managers, err := h.Org.ListManagers(r.Context(), filter)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	departments, err := h.Org.ListDepartments(r.Context())
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, "managers", view.Page{
		Title: "Managers",
		Data: listData{
			Managers:     managers,
			Departments:  departments,
			Search:       filter.Search,
			DepartmentID: filter.DepartmentID,
		},
	})
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, 0, shared.NewPersonInput(0, time.Now()), view.Page{Title: "New manager"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	in := shared.ParsePersonForm(r, v)
	if v.HasIssues() {
		h.renderInvalid(w, r, 0, in, v)
		return
	}
	id, err := h.Org.CreateManager(r.Context(), in)
	if err != nil {
		h.renderSaveError(w, r, 0, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "manager", id, map[string]any{"email": in.Email, "departmentId": in.DepartmentID})
	http.Redirect(w, r, "/managers?notice=created", http.StatusSeeOther)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Manager not found.")
		return
	}
	m, err := h.Org.GetManager(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, id, shared.ManagerInput(m), view.Page{Title: "Edit " + m.FullName()})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Manager not found.")
		return
	}
	v := shared.NewValidator()
	in := shared.ParsePersonForm(r, v)
	if v.HasIssues() {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	if err := h.Org.UpdateManager(r.Context(), id, in); err != nil {
		h.renderSaveError(w, r, id, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "manager", id, map[string]any{"email": in.Email, "departmentId": in.DepartmentID})
	http.Redirect(w, r, "/managers?notice=updated", http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Manager not found.")
		return
	}
	if err := h.Org.DeleteManager(r.Context(), id); err != nil {
		h.View.Fail(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "manager", id, nil)
	http.Redirect(w, r, "/managers?notice=deleted", http.StatusSeeOther)
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, id int64, in org.PersonInput, v *shared.Validator) {
	h.renderForm(w, r, http.StatusBadRequest, id, in, view.Page{
		Title:       "Manager",
		Error:       "Please correct the highlighted fields.",
		FieldErrors: v.Fields(),
	})
}

// renderSaveError re-renders the form with validation details or the
// user-facing text for a failed write.
func (h *Handler) renderSaveError(w http.ResponseWriter, r *http.Request, id int64, in org.PersonInput, err error) {
	v := shared.NewValidator()
	if rest := v.Merge(err); rest == nil {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "save manager", err)
	}
	h.renderForm(w, r, status, id, in, view.Page{Title: "Manager", Error: msg})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, in org.PersonInput, page view.Page) {
	departments, err := h.Org.ListDepartments(r.Context())
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	in.Password = ""
	form := shared.PersonForm{
		Action:      "/managers",
		CancelURL:   "/managers",
		IsNew:       id == 0,
		Input:       in,
		Departments: departments,
	}
	if id != 0 {
		form.Action = fmt.Sprintf("/managers/%d", id)
	}
	page.Data = form
	h.View.Render(w, r, status, "person_form", page)
}
