package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const managerSelect = `
    SELECT m.id, m.first_name, m.last_name, m.email, m.phone_number,
           m.department_id, d.name, m.position, m.hire_date, m.base_salary::text
    FROM managers m
    JOIN departments d ON d.id = m.department_id
  `

const employeeSelect = `
    SELECT e.id, e.first_name, e.last_name, e.email, e.phone_number,
           e.department_id, d.name, e.manager_id,
           COALESCE(m.first_name || ' ' || m.last_name, ''),
           e.position, e.hire_date, e.base_salary::text
    FROM employees e
    JOIN departments d ON d.id = e.department_id
    LEFT JOIN managers m ON m.id = e.manager_id
  `

func scanManager(row pgx.Row) (Manager, error) {
	var m Manager
	var salary string
	if err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber,
		&m.DepartmentID, &m.Department, &m.Position, &m.HireDate, &salary); err != nil {
		return Manager{}, err
	}
	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return Manager{}, fmt.Errorf("manager %d base salary: %w", m.ID, err)
	}
	m.BaseSalary = amount
	return m, nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var salary string
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PhoneNumber,
		&e.DepartmentID, &e.Department, &e.ManagerID, &e.ManagerName,
		&e.Position, &e.HireDate, &salary); err != nil {
		return Employee{}, err
	}
	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return Employee{}, fmt.Errorf("employee %d base salary: %w", e.ID, err)
	}
	e.BaseSalary = amount
	return e, nil
}

// where builds the shared search/department clause for the given table alias.
func (f Filter) where(alias string) (string, []any) {
	clause := " WHERE 1=1"
	var args []any
	if f.DepartmentID > 0 {
		args = append(args, f.DepartmentID)
		clause += fmt.Sprintf(" AND %s.department_id = $%d", alias, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clause += fmt.Sprintf(" AND (%[1]s.first_name ILIKE $%[2]d OR %[1]s.last_name ILIKE $%[2]d OR %[1]s.email ILIKE $%[2]d)", alias, len(args))
	}
	return clause, args
}

func (s *Store) ListManagers(ctx context.Context, filter Filter) ([]Manager, error) {
	clause, args := filter.where("m")
	rows, err := s.DB.Query(ctx, managerSelect+clause+" ORDER BY m.last_name, m.first_name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Manager
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) GetManager(ctx context.Context, id int64) (Manager, error) {
	m, err := scanManager(s.DB.QueryRow(ctx, managerSelect+" WHERE m.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Manager{}, ErrNotFound
	}
	return m, err
}

func (s *Store) CreateManager(ctx context.Context, in PersonInput, passwordHash string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO managers (first_name, last_name, email, password, phone_number, department_id, position, hire_date, base_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::numeric)
    RETURNING id
  `, in.FirstName, in.LastName, in.Email, passwordHash, in.PhoneNumber, in.DepartmentID,
		in.Position, in.HireDate, in.BaseSalary.String()).Scan(&id)
	if err != nil {
		return 0, personWriteError(err)
	}
	return id, nil
}

// UpdateManager keeps the stored password when passwordHash is empty.
func (s *Store) UpdateManager(ctx context.Context, id int64, in PersonInput, passwordHash string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE managers
    SET first_name = $2, last_name = $3, email = $4,
        password = COALESCE(NULLIF($5, ''), password),
        phone_number = $6, department_id = $7, position = $8, hire_date = $9,
        base_salary = $10::numeric
    WHERE id = $1
  `, id, in.FirstName, in.LastName, in.Email, passwordHash, in.PhoneNumber, in.DepartmentID,
		in.Position, in.HireDate, in.BaseSalary.String())
	if err != nil {
		return personWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteManager(ctx context.Context, id int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM managers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListEmployees(ctx context.Context, filter Filter) ([]Employee, error) {
	clause, args := filter.where("e")
	if filter.ManagerID > 0 {
		args = append(args, filter.ManagerID)
		clause += fmt.Sprintf(" AND e.manager_id = $%d", len(args))
	}
	rows, err := s.DB.Query(ctx, employeeSelect+clause+" ORDER BY e.last_name, e.first_name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, in PersonInput, passwordHash string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, password, phone_number, department_id, manager_id, position, hire_date, base_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::numeric)
    RETURNING id
  `, in.FirstName, in.LastName, in.Email, passwordHash, in.PhoneNumber, in.DepartmentID, in.ManagerID,
		in.Position, in.HireDate, in.BaseSalary.String()).Scan(&id)
	if err != nil {
		return 0, personWriteError(err)
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, in PersonInput, passwordHash string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, email = $4,
        password = COALESCE(NULLIF($5, ''), password),
        phone_number = $6, department_id = $7, manager_id = $8, position = $9, hire_date = $10,
        base_salary = $11::numeric
    WHERE id = $1
  `, id, in.FirstName, in.LastName, in.Email, passwordHash, in.PhoneNumber, in.DepartmentID, in.ManagerID,
		in.Position, in.HireDate, in.BaseSalary.String())
	if err != nil {
		return personWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
