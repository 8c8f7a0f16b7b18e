package projecthandler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"corpdash/internal/domain/audit"
	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/project"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/shared"
	"corpdash/internal/transport/http/view"
)

type Handler struct {
	Projects *project.Service
	Org      *org.Service
	Audit    *audit.Service
	View     *view.Renderer
}

func NewHandler(projects *project.Service, orgService *org.Service, recorder *audit.Service, renderer *view.Renderer) *Handler {
	return &Handler{Projects: projects, Org: orgService, Audit: recorder, View: renderer}
}

type listData struct {
	Projects []project.Project
}

type detailData struct {
	Project  project.Project
	Tasks    []project.Task
	Progress float64
	Counts   map[string]int
}

type formData struct {
	Action      string
	IsNew       bool
	Input       project.ProjectInput
	Statuses    []string
	Departments []org.Department
	Managers    []org.Manager
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
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
	var filter project.ProjectFilter
	principal, _ := middleware.GetPrincipal(r.Context())
	if principal.Is(auth.RoleManager) {
		filter.DepartmentID = principal.DepartmentID
	}
	projects, err := h.Projects.ListProjects(r.Context(), filter)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, "projects", view.Page{Title: "Projects", Data: listData{Projects: projects}})
}

// visible reports whether a manager may open the project: it must be linked
// to their department or to them directly.
func visible(p project.Project, principal auth.Principal) bool {
	if !principal.Is(auth.RoleManager) {
		return true
	}
	linked := func(id int64) func(project.Ref) bool {
		return func(ref project.Ref) bool { return ref.ID == id }
	}
	return slices.ContainsFunc(p.Departments, linked(principal.DepartmentID)) ||
		slices.ContainsFunc(p.Managers, linked(principal.ID))
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Project not found.")
		return
	}
	p, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if !visible(p, principal) {
		h.View.Error(w, r, http.StatusForbidden, "This project is not linked to your department.")
		return
	}
	tasks, err := h.Projects.ListTasks(r.Context(), project.TaskFilter{ProjectID: id})
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, "project_detail", view.Page{
		Title: p.Name,
		Data: detailData{
			Project:  p,
			Tasks:    tasks,
			Progress: project.Progress(tasks),
			Counts:   project.StatusCounts(tasks),
		},
	})
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, 0, project.ProjectInput{Status: project.StatusPlanned}, view.Page{Title: "New project"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	in := parseForm(r, v)
	if v.HasIssues() {
		h.renderInvalid(w, r, 0, in, v)
		return
	}
	id, err := h.Projects.CreateProject(r.Context(), in)
	if err != nil {
		h.renderSaveError(w, r, 0, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "project", id, map[string]any{
		"name": in.Name, "departmentIds": in.DepartmentIDs, "managerIds": in.ManagerIDs,
	})
	http.Redirect(w, r, fmt.Sprintf("/projects/%d?notice=created", id), http.StatusSeeOther)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Project not found.")
		return
	}
	p, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	in := project.ProjectInput{
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status,
	}
	for _, d := range p.Departments {
		in.DepartmentIDs = append(in.DepartmentIDs, d.ID)
	}
	for _, m := range p.Managers {
		in.ManagerIDs = append(in.ManagerIDs, m.ID)
	}
	h.renderForm(w, r, http.StatusOK, id, in, view.Page{Title: "Edit " + p.Name})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Project not found.")
		return
	}
	v := shared.NewValidator()
	in := parseForm(r, v)
	if v.HasIssues() {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	if err := h.Projects.UpdateProject(r.Context(), id, in); err != nil {
		h.renderSaveError(w, r, id, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "project", id, map[string]any{
		"name": in.Name, "status": in.Status, "departmentIds": in.DepartmentIDs, "managerIds": in.ManagerIDs,
	})
	http.Redirect(w, r, fmt.Sprintf("/projects/%d?notice=updated", id), http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Project not found.")
		return
	}
	if err := h.Projects.DeleteProject(r.Context(), id); err != nil {
		h.View.Fail(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "project", id, nil)
	http.Redirect(w, r, "/projects?notice=deleted", http.StatusSeeOther)
}

func parseForm(r *http.Request, v *shared.Validator) project.ProjectInput {
	if err := r.ParseForm(); err != nil {
		v.Add("form", "could not be read")
		return project.ProjectInput{}
	}
	in := project.ProjectInput{
		Name:          r.PostFormValue("name"),
		Description:   r.PostFormValue("description"),
		StartDate:     v.OptionalDate("start_date", r.PostFormValue("start_date")),
		EndDate:       v.OptionalDate("end_date", r.PostFormValue("end_date")),
		Status:        r.PostFormValue("status"),
		DepartmentIDs: shared.Int64List(r.PostForm["department_ids"]),
		ManagerIDs:    shared.Int64List(r.PostForm["manager_ids"]),
	}
	v.Required("name", in.Name, "is required")
	v.DateOrder("start_date", in.StartDate, "end_date", in.EndDate)
	return in
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, id int64, in project.ProjectInput, v *shared.Validator) {
	h.renderForm(w, r, http.StatusBadRequest, id, in, view.Page{
		Title:       "Project",
		Error:       "Please correct the highlighted fields.",
		FieldErrors: v.Fields(),
	})
}

func (h *Handler) renderSaveError(w http.ResponseWriter, r *http.Request, id int64, in project.ProjectInput, err error) {
	v := shared.NewValidator()
	if rest := v.Merge(err); rest == nil {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "save project", err)
	}
	h.renderForm(w, r, status, id, in, view.Page{Title: "Project", Error: msg})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, in project.ProjectInput, page view.Page) {
	departments, err := h.Org.ListDepartments(r.Context())
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	managers, err := h.Org.ListManagers(r.Context(), org.Filter{})
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	form := formData{
		Action:      "/projects",
		IsNew:       id == 0,
		Input:       in,
		Statuses:    project.Statuses,
		Departments: departments,
		Managers:    managers,
	}
	if id != 0 {
		form.Action = fmt.Sprintf("/projects/%d", id)
	}
	page.Data = form
	h.View.Render(w, r, status, "project_form", page)
}
