package project

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpdash/internal/platform/db"
)

func TestProjectLifecycle(t *testing.T) {
	pool := db.TestPool(t)
	ctx := context.Background()
	svc := NewService(NewStore(pool))
	suffix := time.Now().UnixNano()

	var deptID, employeeID int64
	require.NoError(t, pool.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id",
		fmt.Sprintf("R&D-%d", suffix)).Scan(&deptID))
	require.NoError(t, pool.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, password, department_id)
    VALUES ('Grace', 'Hopper', $1, 'x', $2) RETURNING id
  `, fmt.Sprintf("grace-%d@example.com", suffix), deptID).Scan(&employeeID))

	projectID, err := svc.CreateProject(ctx, ProjectInput{Name: "Compiler", DepartmentIDs: []int64{deptID}})
	require.NoError(t, err)

	p, err := svc.GetProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, p.Departments, 1)
	assert.Equal(t, deptID, p.Departments[0].ID)

	_, err = svc.CreateProject(ctx, ProjectInput{Name: "Broken", DepartmentIDs: []int64{1 << 40}})
	assert.ErrorIs(t, err, ErrUnknownReference)

	taskID, err := svc.CreateTask(ctx, TaskInput{ProjectID: projectID, EmployeeID: &employeeID, Title: "Parser"})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, TaskFilter{EmployeeID: employeeID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Grace Hopper", tasks[0].EmployeeName)

	assert.ErrorIs(t, svc.UpdateTaskStatus(ctx, taskID, TaskDone, employeeID+1), ErrNotAssignee)
	require.NoError(t, svc.UpdateTaskStatus(ctx, taskID, TaskDone, employeeID))

	require.NoError(t, svc.DeleteProject(ctx, projectID))
	_, err = svc.GetTask(ctx, taskID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = pool.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "DELETE FROM departments WHERE id = $1", deptID)
	require.NoError(t, err)
}
