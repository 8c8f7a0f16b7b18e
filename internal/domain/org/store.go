package org

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name,
           (SELECT COUNT(1) FROM managers m WHERE m.department_id = d.id),
           (SELECT COUNT(1) FROM employees e WHERE e.department_id = d.id),
           d.created_at
    FROM departments d
    ORDER BY d.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ManagerCount, &d.EmployeeCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id int64) (Department, error) {
	var d Department
	err := s.DB.QueryRow(ctx, `
    SELECT d.id, d.name,
           (SELECT COUNT(1) FROM managers m WHERE m.department_id = d.id),
           (SELECT COUNT(1) FROM employees e WHERE e.department_id = d.id),
           d.created_at
    FROM departments d
    WHERE d.id = $1
  `, id).Scan(&d.ID, &d.Name, &d.ManagerCount, &d.EmployeeCount, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	return d, err
}

func (s *Store) CreateDepartment(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrNameTaken
	}
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, id int64, name string) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE departments SET name = $2 WHERE id = $1", id, name)
	if isUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDepartment locks the department row, refuses while managers or
// employees still reference it, then drops its project links and the row
// itself. Every step shares one transaction.
func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, "SELECT id FROM departments WHERE id = $1 FOR UPDATE", id).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var inUse InUseError
		if err := tx.QueryRow(ctx, `
      SELECT (SELECT COUNT(1) FROM managers WHERE department_id = $1),
             (SELECT COUNT(1) FROM employees WHERE department_id = $1)
    `, id).Scan(&inUse.Managers, &inUse.Employees); err != nil {
			return err
		}
		if inUse.Managers > 0 || inUse.Employees > 0 {
			return &inUse
		}

		if _, err := tx.Exec(ctx, "DELETE FROM project_departments WHERE department_id = $1", id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
		return err
	})
}
