package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flowmint/internal/wallet/models"
)

// PostgresStore persists registrations in the wallet_registrations table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const registrationsSchema = `
CREATE TABLE IF NOT EXISTS wallet_registrations (
	wallet_address TEXT PRIMARY KEY,
	role           TEXT NOT NULL,
	registered_at  TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the registrations table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, registrationsSchema); err != nil {
		return fmt.Errorf("create registrations schema: %w", err)
	}
	return nil
}

// Save upserts the registration; the row reflects whichever statement commits last.
func (s *PostgresStore) Save(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO wallet_registrations (wallet_address, role, registered_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet_address) DO UPDATE
		SET role = EXCLUDED.role, registered_at = EXCLUDED.registered_at
	`
	if _, err := s.db.ExecContext(ctx, query, reg.WalletAddress, reg.Role, reg.RegisteredAt); err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByAddress(ctx context.Context, walletAddress string) (*models.Registration, error) {
	query := `
		SELECT wallet_address, role, registered_at
		FROM wallet_registrations
		WHERE wallet_address = $1
	`
	var reg models.Registration
	err := s.db.QueryRowContext(ctx, query, walletAddress).Scan(&reg.WalletAddress, &reg.Role, &reg.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
