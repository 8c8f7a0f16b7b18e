package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CompanyCounts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM departments),
           (SELECT COUNT(1) FROM managers),
           (SELECT COUNT(1) FROM employees),
           (SELECT COUNT(1) FROM projects WHERE status = 'active'),
           (SELECT COUNT(1) FROM tasks WHERE status <> 'done')
  `).Scan(&c.Departments, &c.Managers, &c.Employees, &c.ActiveProjects, &c.OpenTasks)
	return c, err
}

func (s *Store) DepartmentCounts(ctx context.Context, departmentID int64) (Counts, error) {
	c := Counts{Departments: 1}
	err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM managers WHERE department_id = $1),
           (SELECT COUNT(1) FROM employees WHERE department_id = $1),
           (SELECT COUNT(1) FROM projects p
              JOIN project_departments pd ON pd.project_id = p.id
             WHERE pd.department_id = $1 AND p.status = 'active'),
           (SELECT COUNT(1) FROM tasks t
              JOIN employees e ON e.id = t.employee_id
             WHERE e.department_id = $1 AND t.status <> 'done')
  `, departmentID).Scan(&c.Managers, &c.Employees, &c.ActiveProjects, &c.OpenTasks)
	return c, err
}

func (s *Store) EmployeeOpenTasks(ctx context.Context, employeeID int64) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM tasks WHERE employee_id = $1 AND status <> 'done'", employeeID).Scan(&n)
	return n, err
}
