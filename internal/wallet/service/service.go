package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"flowmint/internal/wallet/metrics"
	"flowmint/internal/wallet/models"
	dErrors "flowmint/pkg/domain-errors"
	audit "flowmint/pkg/platform/audit"
	"flowmint/pkg/platform/sentinel"
	"flowmint/pkg/requestcontext"
)

// NotFoundMessage is reported for addresses without a registration.
const NotFoundMessage = "User not found"

// Store is the registry backing store. Swapping implementations does not
// affect Register/Lookup semantics.
type Store interface {
	Save(ctx context.Context, reg *models.Registration) error
	FindByAddress(ctx context.Context, walletAddress string) (*models.Registration, error)
}

// AuditPublisher receives registration events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service maps wallet addresses to roles.
type Service struct {
	store   Store
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs the registry service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("flowmint/internal/wallet/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register inserts or overwrites the role for walletAddress. There is no
// uniqueness check and no role allow-list; the last completed write wins.
func (s *Service) Register(ctx context.Context, walletAddress, role string) error {
	ctx, span := s.tracer.Start(ctx, "wallet.Register", trace.WithAttributes(
		attribute.String("wallet.address", walletAddress),
		attribute.String("wallet.role", role),
	))
	defer span.End()

	reg := &models.Registration{
		WalletAddress: walletAddress,
		Role:          role,
		RegisteredAt:  requestcontext.Now(ctx),
	}

	start := time.Now()
	err := s.store.Save(ctx, reg)
	s.metrics.ObserveStoreLatency("save", time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}
	s.metrics.IncrementRegistrations()

	s.emitRegistered(ctx, reg)
	return nil
}

// Lookup returns the registration for walletAddress exactly as given.
// Missing addresses yield a not_found domain error wrapping sentinel.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, walletAddress string) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "wallet.Lookup", trace.WithAttributes(
		attribute.String("wallet.address", walletAddress),
	))
	defer span.End()

	start := time.Now()
	reg, err := s.store.FindByAddress(ctx, walletAddress)
	s.metrics.ObserveStoreLatency("find", time.Since(start))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLookup("miss")
			span.SetAttributes(attribute.Bool("wallet.found", false))
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, NotFoundMessage)
		}
		s.metrics.IncrementLookup("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	s.metrics.IncrementLookup("hit")
	span.SetAttributes(attribute.Bool("wallet.found", true))
	return reg, nil
}

// emitRegistered is best effort: an audit failure never fails the registration.
func (s *Service) emitRegistered(ctx context.Context, reg *models.Registration) {
	if s.auditor == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)
	err := s.auditor.Emit(ctx, audit.Event{
		Category:      audit.CategoryCompliance,
		Timestamp:     reg.RegisteredAt,
		Action:        string(audit.EventWalletRegistered),
		WalletAddress: reg.WalletAddress,
		Role:          reg.Role,
		RequestID:     requestID,
		ClientIP:      requestcontext.ClientIP(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit registration audit event",
			"request_id", requestID,
			"wallet_address", reg.WalletAddress,
			"error", err,
		)
	}
}
