package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Account struct {
	Principal
	PasswordHash string
}

// FindAccount resolves an email across the three account tables. When the
// same address exists in more than one table the most privileged role wins.
func (s *Store) FindAccount(ctx context.Context, email string) (Account, error) {
	var out Account
	var firstName, lastName string
	err := s.DB.QueryRow(ctx, `
    SELECT id, role, department_id, first_name, last_name, email, password
    FROM (
      SELECT id, 'ceo' AS role, 0::bigint AS department_id, first_name, last_name, email, password, 1 AS rank
      FROM ceos WHERE lower(email) = lower($1)
      UNION ALL
      SELECT id, 'manager', department_id, first_name, last_name, email, password, 2
      FROM managers WHERE lower(email) = lower($1)
      UNION ALL
      SELECT id, 'employee', department_id, first_name, last_name, email, password, 3
      FROM employees WHERE lower(email) = lower($1)
    ) accounts
    ORDER BY rank
    LIMIT 1
  `, strings.TrimSpace(email)).Scan(&out.ID, &out.Role, &out.DepartmentID, &firstName, &lastName, &out.Email, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	out.Name = strings.TrimSpace(firstName + " " + lastName)
	return out, nil
}
