package kpi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("kpi entry not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = "id, employee_id, period, indicator_name, weight::float8, target_value::float8, actual_value::float8, unit"

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Period, &e.IndicatorName, &e.Weight, &e.TargetValue, &e.ActualValue, &e.Unit)
	return e, err
}

func (s *Store) ListEntries(ctx context.Context, employeeID int64, period time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM employee_kpi
    WHERE employee_id = $1 AND period = $2
    ORDER BY indicator_name
  `, employeeID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, "SELECT "+entryColumns+" FROM employee_kpi WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// SaveEntry inserts an indicator or replaces the one with the same name for
// the employee and period.
func (s *Store) SaveEntry(ctx context.Context, e Entry) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_kpi (employee_id, period, indicator_name, weight, target_value, actual_value, unit)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (employee_id, period, indicator_name)
    DO UPDATE SET weight = EXCLUDED.weight,
                  target_value = EXCLUDED.target_value,
                  actual_value = EXCLUDED.actual_value,
                  unit = EXCLUDED.unit
    RETURNING id
  `, e.EmployeeID, e.Period, e.IndicatorName, e.Weight, e.TargetValue, e.ActualValue, e.Unit).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save kpi entry: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e Entry) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employee_kpi
    SET indicator_name = $1, weight = $2, target_value = $3, actual_value = $4, unit = $5
    WHERE id = $6
  `, e.IndicatorName, e.Weight, e.TargetValue, e.ActualValue, e.Unit, e.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employee_kpi WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type employeeEntries struct {
	employeeID int64
	name       string
	department string
	entries    []Entry
}

// ListByPeriod returns every employee (optionally limited to one department)
// with the entries they have for the period, including employees with none.
func (s *Store) ListByPeriod(ctx context.Context, period time.Time, departmentID int64) ([]employeeEntries, error) {
	query := `
    SELECT e.id, e.first_name || ' ' || e.last_name, d.name,
           k.id, k.indicator_name, k.weight::float8, k.target_value::float8, k.actual_value::float8, k.unit
    FROM employees e
    JOIN departments d ON d.id = e.department_id
    LEFT JOIN employee_kpi k ON k.employee_id = e.id AND k.period = $1
  `
	args := []any{period}
	if departmentID > 0 {
		query += " WHERE e.department_id = $2"
		args = append(args, departmentID)
	}
	query += " ORDER BY e.last_name, e.first_name, e.id, k.indicator_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employeeEntries
	for rows.Next() {
		var (
			employeeID       int64
			name, department string
			entryID          *int64
			indicator, unit  *string
			weight           *float64
			target, actual   *float64
		)
		if err := rows.Scan(&employeeID, &name, &department, &entryID, &indicator, &weight, &target, &actual, &unit); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].employeeID != employeeID {
			out = append(out, employeeEntries{employeeID: employeeID, name: name, department: department})
		}
		if entryID == nil {
			continue
		}
		current := &out[len(out)-1]
		current.entries = append(current.entries, Entry{
			ID:            *entryID,
			EmployeeID:    employeeID,
			Period:        period,
			IndicatorName: deref(indicator),
			Weight:        derefFloat(weight),
			TargetValue:   target,
			ActualValue:   actual,
			Unit:          deref(unit),
		})
	}
	return out, rows.Err()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
