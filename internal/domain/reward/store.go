package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("reward not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type subjectTable struct {
	rewards string
	column  string
	people  string
}

// tables is the only source of identifiers interpolated into SQL.
var tables = map[Subject]subjectTable{
	SubjectEmployee: {rewards: "employee_rewards", column: "employee_id", people: "employees"},
	SubjectManager:  {rewards: "manager_rewards", column: "manager_id", people: "managers"},
}

func tableFor(subject Subject) (subjectTable, error) {
	t, ok := tables[subject]
	if !ok {
		return subjectTable{}, fmt.Errorf("unknown reward subject %q", subject)
	}
	return t, nil
}

func (s *Store) selectSQL(t subjectTable) string {
	return fmt.Sprintf(`
    SELECT r.id, r.%[2]s, p.first_name || ' ' || p.last_name, d.name, r.period, r.period_type, r.total_amount::text
    FROM %[1]s r
    JOIN %[3]s p ON p.id = r.%[2]s
    JOIN departments d ON d.id = p.department_id
  `, t.rewards, t.column, t.people)
}

func scanReward(subject Subject, row pgx.Row) (Reward, error) {
	var r Reward
	var periodType, amount string
	if err := row.Scan(&r.ID, &r.SubjectID, &r.SubjectName, &r.Department, &r.Period, &periodType, &amount); err != nil {
		return Reward{}, err
	}
	total, err := decimal.NewFromString(amount)
	if err != nil {
		return Reward{}, fmt.Errorf("reward %d amount: %w", r.ID, err)
	}
	r.Subject = subject
	r.PeriodType = PeriodType(periodType)
	r.TotalAmount = total
	return r, nil
}

// Lookup fetches the single reward keyed by subject, period and period type.
func (s *Store) Lookup(ctx context.Context, subject Subject, subjectID int64, period time.Time, periodType PeriodType) (Reward, error) {
	t, err := tableFor(subject)
	if err != nil {
		return Reward{}, err
	}
	query := s.selectSQL(t) + fmt.Sprintf(" WHERE r.%s = $1 AND r.period = $2 AND r.period_type = $3", t.column)
	r, err := scanReward(subject, s.DB.QueryRow(ctx, query, subjectID, period, string(periodType)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reward{}, ErrNotFound
	}
	return r, err
}

type Filter struct {
	SubjectID    int64
	DepartmentID int64
	PeriodType   PeriodType
	From         time.Time
}

func (s *Store) List(ctx context.Context, subject Subject, filter Filter) ([]Reward, error) {
	t, err := tableFor(subject)
	if err != nil {
		return nil, err
	}
	query := s.selectSQL(t) + " WHERE 1=1"
	var args []any
	if filter.SubjectID > 0 {
		args = append(args, filter.SubjectID)
		query += fmt.Sprintf(" AND r.%s = $%d", t.column, len(args))
	}
	if filter.DepartmentID > 0 {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND p.department_id = $%d", len(args))
	}
	if filter.PeriodType != "" {
		args = append(args, string(filter.PeriodType))
		query += fmt.Sprintf(" AND r.period_type = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND r.period >= $%d", len(args))
	}
	query += " ORDER BY r.period DESC, p.last_name, p.first_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reward
	for rows.Next() {
		r, err := scanReward(subject, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Save records a reward row produced elsewhere, replacing the amount when the
// key already exists.
func (s *Store) Save(ctx context.Context, subject Subject, subjectID int64, period time.Time, periodType PeriodType, amount decimal.Decimal) (int64, error) {
	t, err := tableFor(subject)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.DB.QueryRow(ctx, fmt.Sprintf(`
    INSERT INTO %[1]s (%[2]s, period, period_type, total_amount)
    VALUES ($1,$2,$3,$4::numeric)
    ON CONFLICT (%[2]s, period, period_type)
    DO UPDATE SET total_amount = EXCLUDED.total_amount
    RETURNING id
  `, t.rewards, t.column), subjectID, period, string(periodType), amount.String()).Scan(&id)
	return id, err
}

func (s *Store) Delete(ctx context.Context, subject Subject, id int64) error {
	t, err := tableFor(subject)
	if err != nil {
		return err
	}
	cmd, err := s.DB.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.rewards), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
