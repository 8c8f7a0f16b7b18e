package projecthandler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/project"
)

func TestVisible(t *testing.T) {
	p := project.Project{
		ID:          1,
		Name:        "Launch",
		Departments: []project.Ref{{ID: 10, Name: "Sales"}},
		Managers:    []project.Ref{{ID: 21, Name: "Mona Lee"}},
	}

	tests := []struct {
		name      string
		principal auth.Principal
		want      bool
	}{
		{name: "ceo", principal: auth.Principal{ID: 1, Role: auth.RoleCEO}, want: true},
		{name: "manager of linked department", principal: auth.Principal{ID: 30, Role: auth.RoleManager, DepartmentID: 10}, want: true},
		{name: "linked manager elsewhere", principal: auth.Principal{ID: 21, Role: auth.RoleManager, DepartmentID: 11}, want: true},
		{name: "unrelated manager", principal: auth.Principal{ID: 22, Role: auth.RoleManager, DepartmentID: 11}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, visible(p, tc.principal))
		})
	}
}
