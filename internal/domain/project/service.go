package project

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	store    *Store
	validate *validator.Validate
}

func NewService(store *Store) *Service {
	return &Service{store: store, validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (s *Service) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	return s.store.ListProjects(ctx, filter)
}

func (s *Service) GetProject(ctx context.Context, id int64) (Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (int64, error) {
	if err := s.prepareProject(&in); err != nil {
		return 0, err
	}
	return s.store.CreateProject(ctx, in)
}

func (s *Service) UpdateProject(ctx context.Context, id int64, in ProjectInput) error {
	if err := s.prepareProject(&in); err != nil {
		return err
	}
	return s.store.UpdateProject(ctx, id, in)
}

func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	return s.store.DeleteProject(ctx, id)
}

func (s *Service) prepareProject(in *ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status == "" {
		in.Status = StatusPlanned
	}
	in.DepartmentIDs = dedupe(in.DepartmentIDs)
	in.ManagerIDs = dedupe(in.ManagerIDs)
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return ErrInvalidDates
	}
	return nil
}

func (s *Service) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	return s.store.ListTasks(ctx, filter)
}

func (s *Service) GetTask(ctx context.Context, id int64) (Task, error) {
	return s.store.GetTask(ctx, id)
}

func (s *Service) CreateTask(ctx context.Context, in TaskInput) (int64, error) {
	if err := s.prepareTask(&in); err != nil {
		return 0, err
	}
	return s.store.CreateTask(ctx, in)
}

func (s *Service) UpdateTask(ctx context.Context, id int64, in TaskInput) error {
	if err := s.prepareTask(&in); err != nil {
		return err
	}
	return s.store.UpdateTask(ctx, id, in)
}

// UpdateTaskStatus lets an assignee move their own task along. Pass 0 as
// assigneeID for unrestricted updates by managers and the CEO.
func (s *Service) UpdateTaskStatus(ctx context.Context, id int64, status string, assigneeID int64) error {
	if !ValidTaskStatus(status) {
		return ErrInvalidStatus
	}
	return s.store.UpdateTaskStatus(ctx, id, status, assigneeID)
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}

func (s *Service) prepareTask(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status == "" {
		in.Status = TaskTodo
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.EmployeeID != nil && *in.EmployeeID <= 0 {
		in.EmployeeID = nil
	}
	return s.validate.Struct(in)
}
