package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"corpdash/internal/domain/auth"
	"corpdash/internal/platform/config"
)

const defaultDepartment = "General"

// Seed creates the first CEO account and a department to hang new staff on.
// It is idempotent and skips the CEO when no credentials are configured.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureCEO(ctx, pool, cfg.SeedCEOEmail, cfg.SeedCEOPassword); err != nil {
		return fmt.Errorf("seed ceo: %w", err)
	}
	if err := ensureDepartment(ctx, pool, defaultDepartment); err != nil {
		return fmt.Errorf("seed department: %w", err)
	}
	return nil
}

func ensureCEO(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM ceos WHERE lower(email) = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO ceos (first_name, last_name, email, password)
    VALUES ('Chief', 'Executive', $1, $2)
    ON CONFLICT (email) DO NOTHING
  `, email, hash)
	return err
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM departments").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := pool.Exec(ctx, "INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
	return err
}
