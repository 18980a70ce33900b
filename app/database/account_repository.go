package database

import (
	"context"
	"fmt"
)

var _ AccountRepository = (*AccountRepo)(nil)

// AccountRepo handles database operations for accounts.
type AccountRepo struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Ensure(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO account (userid) VALUES ($1)
		ON CONFLICT (userid) DO NOTHING
	`, userID)

	if err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}

	return nil
}
