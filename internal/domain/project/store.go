package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func writeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrUnknownReference
	}
	return err
}

func (s *Store) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	query := `
    SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.status,
           (SELECT COUNT(1) FROM tasks t WHERE t.project_id = p.id)
    FROM projects p
    WHERE 1=1`
	var args []any
	if filter.DepartmentID > 0 {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM project_departments pd WHERE pd.project_id = p.id AND pd.department_id = $%d)", len(args))
	}
	if filter.ManagerID > 0 {
		args = append(args, filter.ManagerID)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM manager_projects mp WHERE mp.project_id = p.id AND mp.manager_id = $%d)", len(args))
	}
	query += " ORDER BY p.start_date DESC NULLS LAST, p.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.Status, &p.TaskCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProject loads a project with its linked departments and managers.
func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	var p Project
	err := s.DB.QueryRow(ctx, `
    SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.status,
           (SELECT COUNT(1) FROM tasks t WHERE t.project_id = p.id)
    FROM projects p
    WHERE p.id = $1
  `, id).Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.Status, &p.TaskCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, err
	}

	if p.Departments, err = s.refs(ctx, `
    SELECT d.id, d.name
    FROM project_departments pd
    JOIN departments d ON d.id = pd.department_id
    WHERE pd.project_id = $1
    ORDER BY d.name
  `, id); err != nil {
		return Project{}, err
	}
	if p.Managers, err = s.refs(ctx, `
    SELECT m.id, m.first_name || ' ' || m.last_name
    FROM manager_projects mp
    JOIN managers m ON m.id = mp.manager_id
    WHERE mp.project_id = $1
    ORDER BY m.last_name, m.first_name
  `, id); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *Store) refs(ctx context.Context, query string, id int64) ([]Ref, error) {
	rows, err := s.DB.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ref
	for rows.Next() {
		var r Ref
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, in ProjectInput) (int64, error) {
	var id int64
	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
      INSERT INTO projects (name, description, start_date, end_date, status)
      VALUES ($1,$2,$3,$4,$5)
      RETURNING id
    `, in.Name, in.Description, in.StartDate, in.EndDate, in.Status).Scan(&id); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, id, in.DepartmentIDs, in.ManagerIDs)
	})
	if err != nil {
		return 0, writeError(err)
	}
	return id, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int64, in ProjectInput) error {
	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
      UPDATE projects
      SET name = $2, description = $3, start_date = $4, end_date = $5, status = $6
      WHERE id = $1
    `, id, in.Name, in.Description, in.StartDate, in.EndDate, in.Status)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return replaceLinks(ctx, tx, id, in.DepartmentIDs, in.ManagerIDs)
	})
	return writeError(err)
}

// replaceLinks swaps the department and manager assignments of a project for
// the given sets.
func replaceLinks(ctx context.Context, tx pgx.Tx, projectID int64, departmentIDs, managerIDs []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM project_departments WHERE project_id = $1", projectID); err != nil {
		return err
	}
	for _, deptID := range departmentIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO project_departments (project_id, department_id)
      VALUES ($1,$2)
      ON CONFLICT DO NOTHING
    `, projectID, deptID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM manager_projects WHERE project_id = $1", projectID); err != nil {
		return err
	}
	for _, managerID := range managerIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO manager_projects (manager_id, project_id)
      VALUES ($1,$2)
      ON CONFLICT DO NOTHING
    `, managerID, projectID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProject removes the project together with its tasks and links.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM tasks WHERE project_id = $1",
			"DELETE FROM project_departments WHERE project_id = $1",
			"DELETE FROM manager_projects WHERE project_id = $1",
		} {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}
		cmd, err := tx.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
