package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "flowmint/pkg/platform/audit"
)

// Store implements audit.Store on the wallet_audit_events table.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS wallet_audit_events (
	id             UUID PRIMARY KEY,
	category       TEXT NOT NULL,
	action         TEXT NOT NULL,
	wallet_address TEXT NOT NULL,
	role           TEXT NOT NULL DEFAULT '',
	request_id     TEXT NOT NULL DEFAULT '',
	client_ip      TEXT NOT NULL DEFAULT '',
	occurred_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS wallet_audit_events_wallet_idx ON wallet_audit_events (wallet_address, occurred_at);
`

// EnsureSchema creates the audit table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Append inserts an audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO wallet_audit_events (
			id, category, action, wallet_address, role,
			request_id, client_ip, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Action,
		event.WalletAddress,
		event.Role,
		event.RequestID,
		event.ClientIP,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByWallet returns events for a wallet address, oldest first.
func (s *Store) ListByWallet(ctx context.Context, walletAddress string) ([]audit.Event, error) {
	query := `
		SELECT category, action, wallet_address, role,
			   request_id, client_ip, occurred_at
		FROM wallet_audit_events
		WHERE wallet_address = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var category string
		if err := rows.Scan(&category, &e.Action, &e.WalletAddress, &e.Role,
			&e.RequestID, &e.ClientIP, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
