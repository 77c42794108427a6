package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"

	"flowmint/internal/platform/config"
	"flowmint/internal/platform/kafka"
	"flowmint/internal/platform/metrics"
	"flowmint/internal/platform/postgres"
	"flowmint/internal/platform/redis"
	httptransport "flowmint/internal/transport/http"
	"flowmint/internal/wallet"
	walletmetrics "flowmint/internal/wallet/metrics"
	"flowmint/internal/wallet/service"
	"flowmint/internal/wallet/store"
	"flowmint/pkg/platform/audit"
	"flowmint/pkg/platform/audit/guarded"
	"flowmint/pkg/platform/audit/publisher"
	auditmemory "flowmint/pkg/platform/audit/store/memory"
	auditkafka "flowmint/pkg/platform/audit/store/kafka"
	auditpostgres "flowmint/pkg/platform/audit/store/postgres"
	"flowmint/pkg/platform/circuit"
)

type registryStore interface {
	service.Store
	httptransport.HealthChecker
}

// app holds the wired dependencies and everything that needs closing.
type app struct {
	router       http.Handler
	kafkaEnabled bool
	closers      []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.Close()
		return nil, err
	}

	var sinks []audit.Store

	registry, db, err := openStore(ctx, cfg, a)
	if err != nil {
		return fail(err)
	}
	if db != nil {
		auditStore := auditpostgres.New(db)
		if err := auditStore.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		sinks = append(sinks, auditStore)
	}

	kafkaClient, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return fail(err)
	}
	if kafkaClient != nil {
		a.closers = append(a.closers, kafkaClient.Close)
		a.kafkaEnabled = true
		breaker := circuit.New("kafka",
			circuit.WithFailureThreshold(cfg.Audit.CircuitThreshold),
			circuit.WithCooldown(cfg.Audit.CircuitCooldown),
		)
		sinks = append(sinks, guarded.New(auditkafka.New(kafkaClient, cfg.Kafka.Topic), breaker,
			guarded.WithMetrics(guarded.NewMetrics(prometheus.DefaultRegisterer, "kafka")),
			guarded.WithLogger(log),
		))
	}

	if len(sinks) == 0 {
		sinks = append(sinks, auditmemory.NewInMemoryStore())
	}
	auditor := publisher.NewPublisher(audit.Fanout(sinks...),
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
		publisher.WithLogger(log),
	)
	// Registered after the sinks so the buffer drains before they close.
	a.closers = append(a.closers, auditor.Close)

	svc := wallet.NewService(registry,
		service.WithAuditPublisher(auditor),
		service.WithMetrics(walletmetrics.New()),
		service.WithLogger(log),
	)

	a.router = httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.New(),
		Health:         registry,
		RequestTimeout: cfg.Server.RequestTimeout,
		Routes: []httptransport.Route{
			wallet.NewHandler(svc, log, cfg.Wallet.StrictNotFound),
		},
	})
	return a, nil
}

// openStore returns the configured registry backend, plus the database handle
// when the backend is Postgres so the audit trail can share it.
func openStore(ctx context.Context, cfg *config.Config, a *app) (registryStore, *sql.DB, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return store.NewRedis(client.Client), nil, nil
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return pg, db, nil
	case config.BackendMemory:
		return store.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

var _ auditkafka.Producer = (*kgo.Client)(nil)
