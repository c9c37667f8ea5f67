package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joulepoint/fleet-console/internal/config"
	"github.com/joulepoint/fleet-console/internal/credentials"
	"github.com/joulepoint/fleet-console/internal/httpapi"
	"github.com/joulepoint/fleet-console/internal/logging"
	"github.com/joulepoint/fleet-console/internal/platform"
	"github.com/joulepoint/fleet-console/internal/poller"
	"github.com/joulepoint/fleet-console/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if err := os.MkdirAll(cfg.CredentialsDBDir(), 0o755); err != nil {
		logger.Error("failed to create credentials directory", "err", err)
		os.Exit(1)
	}
	creds, err := credentials.NewSqliteStore(ctx, cfg.CredentialsDBPath)
	if err != nil {
		logger.Error("failed to initialize credential store", "err", err)
		os.Exit(1)
	}
	defer creds.Close()

	client := platform.NewClientWithHTTPClient(
		cfg.APIBaseURL,
		creds,
		logger.With("component", "platform"),
		&http.Client{Timeout: cfg.RequestTimeout},
	)

	svc := service.New(client, logger.With("component", "service"))
	hub := httpapi.NewHub(logger.With("component", "events"))
	refreshLoop := poller.New(svc, cfg.RefreshInterval, hub.Broadcast, logger.With("component", "poller"))

	go refreshLoop.Run(ctx)
	refreshLoop.TriggerRefresh()

	api := httpapi.New(svc, refreshLoop, client, hub, logger.With("component", "http"))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", httpServer.Addr, "api_base", cfg.APIBaseURL)
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
