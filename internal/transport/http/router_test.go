package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowmint/internal/platform/metrics"
	"flowmint/internal/platform/middleware"
	"flowmint/internal/wallet/handler"
	"flowmint/internal/wallet/service"
	"flowmint/internal/wallet/store"
	"flowmint/pkg/testutil"
)

type stubHealth struct{ err error }

func (s stubHealth) Health(context.Context) error { return s.err }

type panicRoute struct{}

func (panicRoute) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

func newTestRouter(t *testing.T, health HealthChecker, routes ...Route) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(Deps{
		Logger:   logger,
		Metrics:  metrics.NewWithRegisterer(reg),
		Gatherer: reg,
		Health:   health,
		Routes:   routes,
	}), reg
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		router, _ := newTestRouter(t, stubHealth{})
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))

		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONBody(t, rr, `{"status":"ok"}`)
	})

	t.Run("store unreachable", func(t *testing.T) {
		router, _ := newTestRouter(t, stubHealth{err: errors.New("dial tcp: refused")})
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))

		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		body := testutil.UnmarshalResponse(t, rr)
		assert.Equal(t, "unavailable", body["status"])
		assert.NotContains(t, rr.Body.String(), "refused")
	})
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))

	assert.NotEmpty(t, rr.Header().Get(middleware.HeaderRequestID))
}

func TestWalletRoutesAndMetrics(t *testing.T) {
	h := handler.New(service.New(store.New()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	router, _ := newTestRouter(t, nil, h)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/register",
		`{"walletAddress":"0x1","role":"buyer"}`))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/user/0x1", ""))
	testutil.AssertJSONBody(t, rr, `{"walletAddress":"0x1","role":"buyer"}`)

	rr = testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))
	testutil.AssertStatus(t, rr, http.StatusOK)
	exposition := rr.Body.String()
	assert.True(t, strings.Contains(exposition, `route="/user/{wallet_address}"`), "route pattern label missing")
	assert.NotContains(t, exposition, `route="/user/0x1"`)
}

func TestPanicRecovered(t *testing.T) {
	router, _ := newTestRouter(t, nil, panicRoute{})
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/boom", ""))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/nope", ""))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
