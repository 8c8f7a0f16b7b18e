package auth

import "slices"

const (
	RoleCEO      = "ceo"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

var AllRoles = []string{RoleCEO, RoleManager, RoleEmployee}

// Principal is the authenticated account behind a request.
type Principal struct {
	ID           int64
	Role         string
	DepartmentID int64
	Name         string
	Email        string
}

func (p Principal) Is(role string) bool {
	return p.Role == role
}

// HasRole reports whether the principal's role is in the allow-list.
func (p Principal) HasRole(roles ...string) bool {
	if p.ID == 0 || p.Role == "" {
		return false
	}
	return slices.Contains(roles, p.Role)
}

func ValidRole(role string) bool {
	return slices.Contains(AllRoles, role)
}
