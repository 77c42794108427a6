package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"flowmint/internal/platform/config"
	"flowmint/internal/platform/httpserver"
	"flowmint/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowmint",
		Short:         "Wallet role registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests and the audit pipeline.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := httpserver.New(cfg.Server.Addr, app.router, cfg.Server.ReadHeaderTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting flowmint",
			"addr", cfg.Server.Addr,
			"store_backend", cfg.Store.Backend,
			"kafka_audit", app.kafkaEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
