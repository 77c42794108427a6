package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers registry mutations (who was given which role).
	CategoryCompliance EventCategory = "compliance"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category      EventCategory `json:"category"`
	Timestamp     time.Time     `json:"timestamp"`
	Action        string        `json:"action"`
	WalletAddress string        `json:"wallet_address"`
	Role          string        `json:"role,omitempty"`
	RequestID     string        `json:"request_id,omitempty"`
	ClientIP      string        `json:"client_ip,omitempty"`
}

type AuditEvent string

const (
	EventWalletRegistered AuditEvent = "wallet_registered"
)

// Store persists audit events. Implementations include the in-memory store
// and the Kafka sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}
