package project

import "time"

const (
	StatusPlanned   = "planned"
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
)

var Statuses = []string{StatusPlanned, StatusActive, StatusOnHold, StatusCompleted}

const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

var TaskStatuses = []string{TaskTodo, TaskInProgress, TaskDone}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      string     `json:"status"`
	TaskCount   int        `json:"taskCount"`
	Departments []Ref      `json:"departments,omitempty"`
	Managers    []Ref      `json:"managers,omitempty"`
}

type ProjectInput struct {
	Name          string     `validate:"required,max=200"`
	Description   string     `validate:"max=2000"`
	StartDate     *time.Time `validate:"omitempty"`
	EndDate       *time.Time `validate:"omitempty"`
	Status        string     `validate:"required,oneof=planned active on_hold completed"`
	DepartmentIDs []int64    `validate:"dive,gt=0"`
	ManagerIDs    []int64    `validate:"dive,gt=0"`
}

// ProjectFilter restricts projects to those linked to a department or a
// manager. Zero values match everything.
type ProjectFilter struct {
	DepartmentID int64
	ManagerID    int64
}

type Task struct {
	ID           int64      `json:"id"`
	ProjectID    int64      `json:"projectId"`
	ProjectName  string     `json:"projectName"`
	EmployeeID   *int64     `json:"employeeId,omitempty"`
	EmployeeName string     `json:"employeeName"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

type TaskInput struct {
	ProjectID   int64      `validate:"required,gt=0"`
	EmployeeID  *int64     `validate:"omitempty"`
	Title       string     `validate:"required,max=200"`
	Description string     `validate:"max=2000"`
	Status      string     `validate:"required,oneof=todo in_progress done"`
	Priority    string     `validate:"required,oneof=low medium high"`
	DueDate     *time.Time `validate:"omitempty"`
}

// TaskFilter narrows task lists. DepartmentID matches tasks assigned to
// employees of that department or belonging to projects linked to it.
type TaskFilter struct {
	ProjectID    int64
	EmployeeID   int64
	DepartmentID int64
	Status       string
}
