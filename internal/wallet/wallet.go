package wallet

import (
	"log/slog"

	"flowmint/internal/wallet/handler"
	"flowmint/internal/wallet/service"
)

// Service exposes wallet registration and lookup.
type Service = service.Service

// Handler wires HTTP endpoints to the wallet service.
type Handler = handler.Handler

// NewService constructs the wallet service over the given registry store.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs the HTTP handler for the registry routes.
func NewHandler(s *Service, logger *slog.Logger, strictNotFound bool) *Handler {
	return handler.New(s, logger, handler.WithStrictNotFound(strictNotFound))
}
