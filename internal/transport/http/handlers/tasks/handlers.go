package taskhandler

import (
	"context"
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
	Tasks     []project.Task
	Projects  []project.Project
	Statuses  []string
	ProjectID int64
	Status    string
}

type formData struct {
	Action     string
	IsNew      bool
	Input      project.TaskInput
	Projects   []project.Project
	Employees  []org.Employee
	Statuses   []string
	Priorities []string
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.AllRoles...)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.AllRoles...)).Post("/{id}/status", h.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleCEO, auth.RoleManager))
			r.Get("/new", h.handleNew)
			r.Post("/", h.handleCreate)
			r.Get("/{id}/edit", h.handleEdit)
			r.Post("/{id}", h.handleUpdate)
			r.Post("/{id}/delete", h.handleDelete)
		})
	})
}

// taskScope narrows a filter to what the principal may see: a manager sees
// their department's tasks and an employee only their own.
func taskScope(p auth.Principal, filter project.TaskFilter) project.TaskFilter {
	switch p.Role {
	case auth.RoleManager:
		filter.DepartmentID = p.DepartmentID
	case auth.RoleEmployee:
		filter.EmployeeID = p.ID
	}
	return filter
}

func projectScope(p auth.Principal) project.ProjectFilter {
	if p.Is(auth.RoleManager) {
		return project.ProjectFilter{DepartmentID: p.DepartmentID}
	}
	return project.ProjectFilter{}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	filter := taskScope(principal, project.TaskFilter{
		ProjectID: shared.QueryInt64(r, "project_id"),
		Status:    r.URL.Query().Get("status"),
	})
	if filter.Status != "" && !project.ValidTaskStatus(filter.Status) {
		filter.Status = ""
	}
	tasks, err := h.Projects.ListTasks(r.Context(), filter)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	var projects []project.Project
	if !principal.Is(auth.RoleEmployee) {
		if projects, err = h.Projects.ListProjects(r.Context(), projectScope(principal)); err != nil {
			h.View.Fail(w, r, err)
			return
		}
	}
	h.View.Render(w, r, http.StatusOK, "tasks", view.Page{
		Title: "Tasks",
		Data: listData{
			Tasks:     tasks,
			Projects:  projects,
			Statuses:  project.TaskStatuses,
			ProjectID: filter.ProjectID,
			Status:    filter.Status,
		},
	})
}

// handleStatus moves a task along. Employees may only touch tasks assigned
// to them; the store enforces that in the same statement as the update.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Task not found.")
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	status := r.PostFormValue("status")

	var assignee int64
	if principal.Is(auth.RoleEmployee) {
		assignee = principal.ID
	} else if !h.canManage(w, r, principal, id) {
		return
	}
	if err := h.Projects.UpdateTaskStatus(r.Context(), id, status, assignee); err != nil {
		h.View.Fail(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "task", id, map[string]string{"status": status})
	http.Redirect(w, r, "/tasks?notice=updated", http.StatusSeeOther)
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	in := project.TaskInput{
		ProjectID: shared.QueryInt64(r, "project_id"),
		Status:    project.TaskTodo,
		Priority:  project.PriorityMedium,
	}
	h.renderForm(w, r, http.StatusOK, 0, in, view.Page{Title: "New task"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())
	v := shared.NewValidator()
	in := parseForm(r, v)
	if v.HasIssues() {
		h.renderInvalid(w, r, 0, in, v)
		return
	}
	if allowed, err := h.projectAllowed(r.Context(), principal, in.ProjectID); err != nil || !allowed {
		h.renderDenied(w, r, 0, in, err)
		return
	}
	id, err := h.Projects.CreateTask(r.Context(), in)
	if err != nil {
		h.renderSaveError(w, r, 0, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "task", id, map[string]any{"projectId": in.ProjectID, "title": in.Title})
	http.Redirect(w, r, "/tasks?notice=created", http.StatusSeeOther)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Task not found.")
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if !h.canManage(w, r, principal, id) {
		return
	}
	t, err := h.Projects.GetTask(r.Context(), id)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	in := project.TaskInput{
		ProjectID:   t.ProjectID,
		EmployeeID:  t.EmployeeID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}
	h.renderForm(w, r, http.StatusOK, id, in, view.Page{Title: "Edit task"})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Task not found.")
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if !h.canManage(w, r, principal, id) {
		return
	}
	v := shared.NewValidator()
	in := parseForm(r, v)
	if v.HasIssues() {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	if allowed, err := h.projectAllowed(r.Context(), principal, in.ProjectID); err != nil || !allowed {
		h.renderDenied(w, r, id, in, err)
		return
	}
	if err := h.Projects.UpdateTask(r.Context(), id, in); err != nil {
		h.renderSaveError(w, r, id, in, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "task", id, map[string]any{"projectId": in.ProjectID, "status": in.Status})
	http.Redirect(w, r, "/tasks?notice=updated", http.StatusSeeOther)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.URLID(r, "id")
	if !ok {
		h.View.Error(w, r, http.StatusNotFound, "Task not found.")
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	if !h.canManage(w, r, principal, id) {
		return
	}
	if err := h.Projects.DeleteTask(r.Context(), id); err != nil {
		h.View.Fail(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionDelete, "task", id, nil)
	http.Redirect(w, r, "/tasks?notice=deleted", http.StatusSeeOther)
}

// canManage checks that a manager's department can see the task. It writes
// the error page itself when the answer is no.
func (h *Handler) canManage(w http.ResponseWriter, r *http.Request, p auth.Principal, taskID int64) bool {
	if !p.Is(auth.RoleManager) {
		return true
	}
	tasks, err := h.Projects.ListTasks(r.Context(), taskScope(p, project.TaskFilter{}))
	if err != nil {
		h.View.Fail(w, r, err)
		return false
	}
	if !slices.ContainsFunc(tasks, func(t project.Task) bool { return t.ID == taskID }) {
		h.View.Error(w, r, http.StatusForbidden, "This task is outside your department.")
		return false
	}
	return true
}

// projectAllowed reports whether the principal may file tasks under the
// project. The CEO may use any project.
func (h *Handler) projectAllowed(ctx context.Context, p auth.Principal, projectID int64) (bool, error) {
	if !p.Is(auth.RoleManager) {
		return true, nil
	}
	proj, err := h.Projects.GetProject(ctx, projectID)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(proj.Departments, func(ref project.Ref) bool { return ref.ID == p.DepartmentID }) ||
		slices.ContainsFunc(proj.Managers, func(ref project.Ref) bool { return ref.ID == p.ID }), nil
}

func parseForm(r *http.Request, v *shared.Validator) project.TaskInput {
	in := project.TaskInput{
		ProjectID:   v.Int64("project_id", r.PostFormValue("project_id")),
		EmployeeID:  v.OptionalInt64("employee_id", r.PostFormValue("employee_id")),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
		Priority:    r.PostFormValue("priority"),
		DueDate:     v.OptionalDate("due_date", r.PostFormValue("due_date")),
	}
	v.Required("title", in.Title, "is required")
	if in.ProjectID <= 0 {
		v.Add("project_id", "is required")
	}
	return in
}

func (h *Handler) renderDenied(w http.ResponseWriter, r *http.Request, id int64, in project.TaskInput, err error) {
	if err != nil {
		h.renderSaveError(w, r, id, in, err)
		return
	}
	h.renderForm(w, r, http.StatusForbidden, id, in, view.Page{
		Title: "Task",
		Error: "You can only file tasks under projects linked to your department.",
	})
}

func (h *Handler) renderInvalid(w http.ResponseWriter, r *http.Request, id int64, in project.TaskInput, v *shared.Validator) {
	h.renderForm(w, r, http.StatusBadRequest, id, in, view.Page{
		Title:       "Task",
		Error:       "Please correct the highlighted fields.",
		FieldErrors: v.Fields(),
	})
}

func (h *Handler) renderSaveError(w http.ResponseWriter, r *http.Request, id int64, in project.TaskInput, err error) {
	v := shared.NewValidator()
	if rest := v.Merge(err); rest == nil {
		h.renderInvalid(w, r, id, in, v)
		return
	}
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "save task", err)
	}
	h.renderForm(w, r, status, id, in, view.Page{Title: "Task", Error: msg})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, in project.TaskInput, page view.Page) {
	principal, _ := middleware.GetPrincipal(r.Context())
	projects, err := h.Projects.ListProjects(r.Context(), projectScope(principal))
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	var staff org.Filter
	if principal.Is(auth.RoleManager) {
		staff.DepartmentID = principal.DepartmentID
	}
	employees, err := h.Org.ListEmployees(r.Context(), staff)
	if err != nil {
		h.View.Fail(w, r, err)
		return
	}
	form := formData{
		Action:     "/tasks",
		IsNew:      id == 0,
		Input:      in,
		Projects:   projects,
		Employees:  employees,
		Statuses:   project.TaskStatuses,
		Priorities: project.Priorities,
	}
	if id != 0 {
		form.Action = fmt.Sprintf("/tasks/%d", id)
	}
	page.Data = form
	h.View.Render(w, r, status, "task_form", page)
}
