// Package httpapi serves the console's own HTTP surface: assembled view
// models, pass-through fleet resources, session endpoints, and a
// websocket snapshot stream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joulepoint/fleet-console/internal/model"
	"github.com/joulepoint/fleet-console/internal/platform"
)

// Snapshots exposes the current dashboard view model.
type Snapshots interface {
	Snapshot() (*model.DashboardSnapshot, bool)
	Refresh(ctx context.Context) (*model.DashboardSnapshot, error)
}

// Poller triggers an asynchronous refresh cycle.
type Poller interface {
	TriggerRefresh()
}

// Fleet is the slice of the platform client the handlers call directly.
type Fleet interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	HasCredentials(ctx context.Context) bool
	CreateDevice(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	ListSims(ctx context.Context) ([]model.SimCard, error)
	CreateSim(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (model.Vehicle, error)
	ListAlerts(ctx context.Context) ([]model.FleetAlert, error)
	ListVehicleTypes(ctx context.Context) ([]model.VehicleType, error)
	CreateVehicleType(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	UpdateVehicleType(ctx context.Context, id int64, payload json.RawMessage) (json.RawMessage, error)
	DeleteVehicleType(ctx context.Context, id int64) error
	DashboardSummary(ctx context.Context) (json.RawMessage, error)
}

// API groups HTTP handlers and their dependencies.
type API struct {
	snapshots Snapshots
	poller    Poller
	fleet     Fleet
	hub       *Hub
	logger    *slog.Logger
}

func New(snapshots Snapshots, poller Poller, fleet Fleet, hub *Hub, logger *slog.Logger) *API {
	return &API{snapshots: snapshots, poller: poller, fleet: fleet, hub: hub, logger: logger}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", a.Health)
	r.Route("/api", func(api chi.Router) {
		api.Post("/session/login", a.Login)
		api.Post("/session/logout", a.Logout)

		api.Get("/dashboard", a.Dashboard)
		api.Get("/dashboard/summary", a.Summary)
		api.Post("/refresh", a.Refresh)
		api.Get("/events", a.Events)

		api.Get("/devices", a.ListDevices)
		api.Post("/devices", a.CreateDevice)
		api.Get("/devices/{id}", a.GetDevice)

		api.Get("/sims", a.ListSims)
		api.Post("/sims", a.CreateSim)

		api.Get("/vehicles", a.ListVehicles)
		api.Get("/vehicles/{id}", a.GetVehicle)

		api.Get("/alerts", a.ListAlerts)

		api.Get("/vehicle-types", a.ListVehicleTypes)
		api.Post("/vehicle-types", a.CreateVehicleType)
		api.Patch("/vehicle-types/{id}", a.UpdateVehicleType)
		api.Delete("/vehicle-types/{id}", a.DeleteVehicleType)
	})
	return r
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"configured": a.fleet.HasCredentials(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// writeUpstreamError maps platform client failures onto console responses.
// An expired session becomes 401 so the UI can redirect to login.
func (a *API) writeUpstreamError(w http.ResponseWriter, err error) {
	var authErr *platform.AuthError
	if errors.As(err, &authErr) {
		writeError(w, http.StatusUnauthorized, "credentials_expired", "Session expired; log in again")
		return
	}
	var httpErr *platform.HTTPError
	if errors.As(err, &httpErr) {
		writeError(w, httpErr.Status, "upstream_error", httpErr.Message())
		return
	}
	var netErr *platform.NetworkError
	if errors.As(err, &netErr) {
		writeError(w, http.StatusBadGateway, "upstream_unreachable", "Failed to load data from the fleet platform")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

// RunServer starts and gracefully stops the HTTP server with context
// cancellation.
func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "err", err)
			return err
		}
		return nil
	}
}
