package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const taskSelect = `
    SELECT t.id, t.project_id, p.name, t.employee_id,
           COALESCE(e.first_name || ' ' || e.last_name, ''),
           t.title, t.description, t.status, t.priority, t.due_date
    FROM tasks t
    JOIN projects p ON p.id = t.project_id
    LEFT JOIN employees e ON e.id = t.employee_id
  `

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.ProjectName, &t.EmployeeID, &t.EmployeeName,
		&t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate)
	return t, err
}

func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := taskSelect + " WHERE 1=1"
	var args []any
	if filter.ProjectID > 0 {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND t.project_id = $%d", len(args))
	}
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND t.employee_id = $%d", len(args))
	}
	if filter.DepartmentID > 0 {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(` AND (e.department_id = $%[1]d OR EXISTS (
      SELECT 1 FROM project_departments pd WHERE pd.project_id = t.project_id AND pd.department_id = $%[1]d))`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	query += " ORDER BY t.due_date NULLS LAST, t.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id int64) (Task, error) {
	t, err := scanTask(s.DB.QueryRow(ctx, taskSelect+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) CreateTask(ctx context.Context, in TaskInput) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (project_id, employee_id, title, description, status, priority, due_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, in.ProjectID, in.EmployeeID, in.Title, in.Description, in.Status, in.Priority, in.DueDate).Scan(&id)
	if err != nil {
		return 0, writeError(err)
	}
	return id, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, in TaskInput) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET project_id = $2, employee_id = $3, title = $4, description = $5,
        status = $6, priority = $7, due_date = $8
    WHERE id = $1
  `, id, in.ProjectID, in.EmployeeID, in.Title, in.Description, in.Status, in.Priority, in.DueDate)
	if err != nil {
		return writeError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTaskStatus changes only the status. A positive assigneeID restricts
// the update to tasks assigned to that employee.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status string, assigneeID int64) error {
	query := "UPDATE tasks SET status = $2 WHERE id = $1"
	args := []any{id, status}
	if assigneeID > 0 {
		query += " AND employee_id = $3"
		args = append(args, assigneeID)
	}
	cmd, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}
	return ErrNotAssignee
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
