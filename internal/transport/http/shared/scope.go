package shared

import (
	"context"
	"errors"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/org"
)

var ErrOutOfScope = errors.New("this record is outside your access")

// ResolveEmployee picks the employee a KPI or reward page is about. An
// employee always gets themselves. A manager may pick anyone in their own
// department and the CEO anyone. A zero result with a nil error means no
// employee was requested.
func ResolveEmployee(ctx context.Context, people *org.Service, p auth.Principal, requested int64) (org.Employee, error) {
	if p.Is(auth.RoleEmployee) {
		requested = p.ID
	}
	if requested <= 0 {
		return org.Employee{}, nil
	}
	e, err := people.GetEmployee(ctx, requested)
	if err != nil {
		return org.Employee{}, err
	}
	if p.Is(auth.RoleManager) && e.DepartmentID != p.DepartmentID {
		return org.Employee{}, ErrOutOfScope
	}
	return e, nil
}

// ResolveManager is the manager-reward counterpart: managers only ever see
// themselves and employees never get here.
func ResolveManager(ctx context.Context, people *org.Service, p auth.Principal, requested int64) (org.Manager, error) {
	switch p.Role {
	case auth.RoleManager:
		requested = p.ID
	case auth.RoleCEO:
	default:
		return org.Manager{}, ErrOutOfScope
	}
	if requested <= 0 {
		return org.Manager{}, nil
	}
	return people.GetManager(ctx, requested)
}

// DepartmentScope is the department a principal's overviews are limited
// to, 0 meaning the whole company.
func DepartmentScope(p auth.Principal) int64 {
	if p.Is(auth.RoleCEO) {
		return 0
	}
	return p.DepartmentID
}
