package org

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrEmailTaken        = errors.New("email already in use")
	ErrNameTaken         = errors.New("department name already in use")
	ErrInvalidName       = errors.New("department name is required and must be at most 100 characters")
	ErrDepartmentInUse   = errors.New("department is still referenced")
	ErrUnknownReference  = errors.New("department or manager does not exist")
	ErrPasswordRequired  = errors.New("password is required")
	ErrInvalidBaseSalary = errors.New("base salary must not be negative")
)

// InUseError reports why a department could not be deleted.
type InUseError struct {
	Managers  int
	Employees int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("department has %d manager(s) and %d employee(s); reassign them first", e.Managers, e.Employees)
}

func (e *InUseError) Is(target error) bool {
	return target == ErrDepartmentInUse
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// personWriteError maps constraint failures on managers and employees to the
// messages shown on their forms.
func personWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrEmailTaken
	case isForeignKeyViolation(err):
		return ErrUnknownReference
	}
	return err
}
