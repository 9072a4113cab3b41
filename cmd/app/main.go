package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/chris/remittance-ledger/pkg/bootstrap"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/handlers"
	"github.com/chris/remittance-ledger/pkg/handlers/websockets"
	"github.com/chris/remittance-ledger/pkg/notify"
	"github.com/chris/remittance-ledger/pkg/reconcile"
)

func main() {
	// Load environment variables from .env file
	config.LoadEnv()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Without an API Gateway endpoint, clients connect to this process directly.
	var opts []bootstrap.Option
	var hub *notify.LocalHub
	if cfg.WebsocketAPIEndpoint == "" {
		hub = notify.NewLocalHub()
		opts = append(opts, bootstrap.WithPublisher(hub))
	}

	c, err := bootstrap.Build(context.Background(), cfg, opts...)
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}

	handler := handlers.NewApiHandler(handlers.Dependencies{
		Service:    c.Service,
		Store:      c.Store,
		Reconciler: c.Reconciler,
		Scheduler:  c.Scheduler,
		Directory:  c.Directory,
		Rates:      c.Rates,
	})

	secret := []byte(cfg.JWTSecret)
	router := handlers.NewRouter(handler, secret, logger)
	if hub != nil {
		router.Handle(handlers.WebsocketPath, websockets.NewLocalHandler(hub, secret))
	}

	// Deployed stacks run the sweep from the reconciliation lambda.
	if !cfg.UseDynamoDB() {
		go sweepLoop(context.Background(), c.Reconciler, time.Minute)
	}

	slog.Info("Starting server", "port", cfg.HTTPPort, "provider", c.Provider.Name())

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func sweepLoop(ctx context.Context, r *reconcile.Reconciler, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := r.Sweep(ctx)
			if err != nil {
				slog.Error("Sweep failed", "error", err)
				continue
			}
			if report.Expired > 0 || report.Resolved > 0 || report.Stuck > 0 || report.Errors > 0 {
				slog.Info("Sweep finished", "expired", report.Expired, "polled", report.Polled, "resolved", report.Resolved, "stuck", report.Stuck, "errors", report.Errors)
			}
		}
	}
}
