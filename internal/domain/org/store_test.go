package org

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpdash/internal/platform/db"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestDeleteDepartmentRejectedWhileReferenced(t *testing.T) {
	pool := db.TestPool(t)
	ctx := context.Background()
	svc := NewService(NewStore(pool))

	deptID, err := svc.CreateDepartment(ctx, uniqueName("Finance"))
	require.NoError(t, err)

	in := validInput()
	in.Email = uniqueName("mgr") + "@example.com"
	in.DepartmentID = deptID
	managerID, err := svc.CreateManager(ctx, in)
	require.NoError(t, err)

	err = svc.DeleteDepartment(ctx, deptID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepartmentInUse))
	var inUse *InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 1, inUse.Managers)
	assert.Equal(t, 0, inUse.Employees)

	_, err = svc.GetDepartment(ctx, deptID)
	require.NoError(t, err, "department must survive a rejected delete")

	require.NoError(t, svc.DeleteManager(ctx, managerID))
	require.NoError(t, svc.DeleteDepartment(ctx, deptID))
	_, err = svc.GetDepartment(ctx, deptID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDepartmentRemovesProjectLinks(t *testing.T) {
	pool := db.TestPool(t)
	ctx := context.Background()
	svc := NewService(NewStore(pool))

	deptID, err := svc.CreateDepartment(ctx, uniqueName("Ops"))
	require.NoError(t, err)

	var projectID int64
	require.NoError(t, pool.QueryRow(ctx, "INSERT INTO projects (name) VALUES ($1) RETURNING id", uniqueName("proj")).Scan(&projectID))
	_, err = pool.Exec(ctx, "INSERT INTO project_departments (project_id, department_id) VALUES ($1,$2)", projectID, deptID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDepartment(ctx, deptID))

	var links int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(1) FROM project_departments WHERE project_id = $1", projectID).Scan(&links))
	assert.Zero(t, links)
}

func TestEmployeeCRUD(t *testing.T) {
	pool := db.TestPool(t)
	ctx := context.Background()
	svc := NewService(NewStore(pool))

	deptID, err := svc.CreateDepartment(ctx, uniqueName("Sales"))
	require.NoError(t, err)

	in := validInput()
	in.Email = uniqueName("emp") + "@example.com"
	in.DepartmentID = deptID
	id, err := svc.CreateEmployee(ctx, in)
	require.NoError(t, err)

	_, err = svc.CreateEmployee(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken)

	emp, err := svc.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", emp.FullName())
	assert.True(t, decimal.RequireFromString("4200.50").Equal(emp.BaseSalary))
	assert.Nil(t, emp.ManagerID)

	list, err := svc.ListEmployees(ctx, Filter{DepartmentID: deptID, Search: "lovel"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	update := in
	update.Password = ""
	update.Position = "Analyst"
	require.NoError(t, svc.UpdateEmployee(ctx, id, update))

	var hash string
	require.NoError(t, pool.QueryRow(ctx, "SELECT password FROM employees WHERE id = $1", id).Scan(&hash))
	assert.NotEmpty(t, hash)

	require.NoError(t, svc.DeleteEmployee(ctx, id))
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, id), ErrNotFound)
	require.NoError(t, svc.DeleteDepartment(ctx, deptID))
}
