package taskhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/project"
)

func TestTaskScopeNarrowsByRole(t *testing.T) {
	requested := project.TaskFilter{ProjectID: 4, EmployeeID: 99, Status: "done"}

	tests := []struct {
		name      string
		principal auth.Principal
		want      project.TaskFilter
	}{
		{
			name:      "ceo keeps the request",
			principal: auth.Principal{ID: 1, Role: auth.RoleCEO},
			want:      requested,
		},
		{
			name:      "manager sees own department",
			principal: auth.Principal{ID: 2, Role: auth.RoleManager, DepartmentID: 7},
			want:      project.TaskFilter{ProjectID: 4, EmployeeID: 99, DepartmentID: 7, Status: "done"},
		},
		{
			name:      "employee sees own tasks only",
			principal: auth.Principal{ID: 3, Role: auth.RoleEmployee, DepartmentID: 7},
			want:      project.TaskFilter{ProjectID: 4, EmployeeID: 3, Status: "done"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, taskScope(tc.principal, requested))
		})
	}
}

func TestProjectScope(t *testing.T) {
	assert.Equal(t, project.ProjectFilter{}, projectScope(auth.Principal{ID: 1, Role: auth.RoleCEO}))
	assert.Equal(t, project.ProjectFilter{DepartmentID: 5}, projectScope(auth.Principal{ID: 2, Role: auth.RoleManager, DepartmentID: 5}))
}
