package org

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"corpdash/internal/domain/auth"
)

type Service struct {
	store    *Store
	validate *validator.Validate
}

func NewService(store *Store) *Service {
	return &Service{store: store, validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (Department, error) {
	return s.store.GetDepartment(ctx, id)
}

func (s *Service) CreateDepartment(ctx context.Context, name string) (int64, error) {
	name, err := s.departmentName(name)
	if err != nil {
		return 0, err
	}
	return s.store.CreateDepartment(ctx, name)
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, name string) error {
	name, err := s.departmentName(name)
	if err != nil {
		return err
	}
	return s.store.UpdateDepartment(ctx, id, name)
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	return s.store.DeleteDepartment(ctx, id)
}

func (s *Service) departmentName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if err := s.validate.Var(name, "required,max=100"); err != nil {
		return "", ErrInvalidName
	}
	return name, nil
}

func (s *Service) ListManagers(ctx context.Context, filter Filter) ([]Manager, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.store.ListManagers(ctx, filter)
}

func (s *Service) GetManager(ctx context.Context, id int64) (Manager, error) {
	return s.store.GetManager(ctx, id)
}

func (s *Service) CreateManager(ctx context.Context, in PersonInput) (int64, error) {
	hash, err := s.prepare(&in, true)
	if err != nil {
		return 0, err
	}
	in.ManagerID = nil
	return s.store.CreateManager(ctx, in, hash)
}

func (s *Service) UpdateManager(ctx context.Context, id int64, in PersonInput) error {
	hash, err := s.prepare(&in, false)
	if err != nil {
		return err
	}
	in.ManagerID = nil
	return s.store.UpdateManager(ctx, id, in, hash)
}

func (s *Service) DeleteManager(ctx context.Context, id int64) error {
	return s.store.DeleteManager(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, filter Filter) ([]Employee, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, in PersonInput) (int64, error) {
	hash, err := s.prepare(&in, true)
	if err != nil {
		return 0, err
	}
	return s.store.CreateEmployee(ctx, in, hash)
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, in PersonInput) error {
	hash, err := s.prepare(&in, false)
	if err != nil {
		return err
	}
	return s.store.UpdateEmployee(ctx, id, in, hash)
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.store.DeleteEmployee(ctx, id)
}

// prepare normalizes and validates a person form and hashes its password.
// An empty hash on update means the stored password is kept.
func (s *Service) prepare(in *PersonInput, requirePassword bool) (string, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Position = strings.TrimSpace(in.Position)
	if in.ManagerID != nil && *in.ManagerID <= 0 {
		in.ManagerID = nil
	}

	if err := s.validate.Struct(in); err != nil {
		return "", err
	}
	if in.BaseSalary.IsNegative() {
		return "", ErrInvalidBaseSalary
	}
	if in.Password == "" {
		if requirePassword {
			return "", ErrPasswordRequired
		}
		return "", nil
	}
	return auth.HashPassword(in.Password)
}
