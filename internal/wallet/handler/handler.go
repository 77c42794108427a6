package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"flowmint/internal/wallet/models"
	"flowmint/internal/wallet/service"
	dErrors "flowmint/pkg/domain-errors"
	"flowmint/pkg/platform/httputil"
	"flowmint/pkg/requestcontext"
)

// Service defines the interface for registry operations.
type Service interface {
	Register(ctx context.Context, walletAddress, role string) error
	Lookup(ctx context.Context, walletAddress string) (*models.Registration, error)
}

// Handler wires registry endpoints to the wallet service.
type Handler struct {
	service        Service
	logger         *slog.Logger
	strictNotFound bool
}

// Option configures the Handler.
type Option func(*Handler)

// WithStrictNotFound answers lookup misses with 404 instead of 200.
// Existing clients expect 200, so this is opt-in.
func WithStrictNotFound(strict bool) Option {
	return func(h *Handler) {
		h.strictNotFound = strict
	}
}

// New constructs a wallet handler with its dependencies.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.HandleRegister)
	r.Get("/user/{wallet_address}", h.HandleGetUser)
}

// HandleRegister handles POST /register requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Register(ctx, *req.WalletAddress, *req.Role); err != nil {
		h.logger.ErrorContext(ctx, "failed to register user",
			"request_id", requestID,
			"wallet_address", *req.WalletAddress,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"wallet_address", *req.WalletAddress,
		"role", *req.Role,
	)
	httputil.WriteJSON(w, http.StatusOK, RegisterResponse{Message: RegisteredMessage})
}

// HandleGetUser handles GET /user/{wallet_address} requests.
// An unknown address yields {"error": "User not found"} with status 200
// unless strict not-found is enabled.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	walletAddress := walletAddressParam(r)

	reg, err := h.service.Lookup(ctx, walletAddress)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.InfoContext(ctx, "user not found",
				"request_id", requestID,
				"wallet_address", walletAddress,
			)
			status := http.StatusOK
			if h.strictNotFound {
				status = http.StatusNotFound
			}
			httputil.WriteJSON(w, status, NotFoundResponse{Error: service.NotFoundMessage})
			return
		}
		h.logger.ErrorContext(ctx, "failed to look up user",
			"request_id", requestID,
			"wallet_address", walletAddress,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRegistration(reg))
}

// walletAddressParam returns the decoded path segment. chi matches against
// RawPath when the request carried one, so only then is the parameter still
// escaped. Otherwise it comes from the already decoded Path and a literal %
// belongs to the address.
func walletAddressParam(r *http.Request) string {
	raw := chi.URLParam(r, "wallet_address")
	if r.URL.RawPath == "" {
		return raw
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
