package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joulepoint/fleet-console/internal/derive"
	"github.com/joulepoint/fleet-console/internal/listview"
	"github.com/joulepoint/fleet-console/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Login authenticates against the platform and stores the token pair.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	if err := a.fleet.Login(r.Context(), payload.Username, payload.Password); err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	a.poller.TriggerRefresh()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.fleet.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "logout_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Dashboard returns the last published snapshot, running a cycle inline
// when none has completed yet.
func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := a.snapshots.Snapshot()
	if !ok {
		fresh, err := a.snapshots.Refresh(r.Context())
		if err != nil {
			a.writeUpstreamError(w, err)
			return
		}
		snapshot = fresh
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (a *API) Summary(w http.ResponseWriter, r *http.Request) {
	raw, err := a.fleet.DashboardSummary(r.Context())
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (a *API) Refresh(w http.ResponseWriter, _ *http.Request) {
	a.poller.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// ListDevices serves filtered, paginated rows from the current snapshot.
func (a *API) ListDevices(w http.ResponseWriter, r *http.Request) {
	rows, err := a.deviceRows(r)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	query := r.URL.Query().Get("query")
	health := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("health")))

	var predicates []listview.Predicate[model.DeviceRow]
	if health != "" && health != "all" {
		predicates = append(predicates, func(row model.DeviceRow) bool {
			return string(row.Health) == health
		})
	}
	filtered := listview.Filter(rows, query, func(row model.DeviceRow) []string {
		return []string{row.DeviceID, row.Model, row.FirmwareVersion}
	}, predicates...)

	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, listview.Paginate(filtered, page, pageSize))
}

func (a *API) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Device id must be numeric")
		return
	}
	rows, err := a.deviceRows(r)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	for _, row := range rows {
		if row.ID == id {
			writeJSON(w, http.StatusOK, row)
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", "Device not found")
}

func (a *API) CreateDevice(w http.ResponseWriter, r *http.Request) {
	a.passthroughCreate(w, r, a.fleet.CreateDevice)
}

func (a *API) ListSims(w http.ResponseWriter, r *http.Request) {
	sims, err := a.fleet.ListSims(r.Context())
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	var predicates []listview.Predicate[model.SimCard]
	if status != "" && status != "all" {
		predicates = append(predicates, func(sim model.SimCard) bool {
			return strings.EqualFold(sim.Status, status)
		})
	}
	filtered := listview.Filter(sims, r.URL.Query().Get("query"), func(sim model.SimCard) []string {
		return []string{sim.SimID, sim.Status}
	}, predicates...)

	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":   listview.Paginate(filtered, page, pageSize),
		"counts": derive.CountByStatus(sims, func(sim model.SimCard) string { return sim.Status }),
	})
}

func (a *API) CreateSim(w http.ResponseWriter, r *http.Request) {
	a.passthroughCreate(w, r, a.fleet.CreateSim)
}

func (a *API) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := a.fleet.ListVehicles(r.Context())
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	vehicleType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	var predicates []listview.Predicate[model.Vehicle]
	if vehicleType != "" && vehicleType != "all" {
		predicates = append(predicates, func(v model.Vehicle) bool {
			return strings.EqualFold(v.VehicleType, vehicleType)
		})
	}
	filtered := listview.Filter(vehicles, r.URL.Query().Get("query"), func(v model.Vehicle) []string {
		return []string{v.Make, v.Model, v.VehicleType}
	}, predicates...)

	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, listview.Paginate(filtered, page, pageSize))
}

func (a *API) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Vehicle id must be numeric")
		return
	}
	vehicle, err := a.fleet.GetVehicle(r.Context(), id)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vehicle":        vehicle,
		"kwh_per_100_km": derive.KWhPer100km(valueOrZero(vehicle.KmPerKwh)),
	})
}

func (a *API) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := a.fleet.ListAlerts(r.Context())
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	severity := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("severity")))
	var predicates []listview.Predicate[model.FleetAlert]
	if severity != "" && severity != "all" {
		predicates = append(predicates, func(alert model.FleetAlert) bool {
			return strings.EqualFold(alert.Severity, severity)
		})
	}
	filtered := listview.Filter(alerts, r.URL.Query().Get("query"), func(alert model.FleetAlert) []string {
		return []string{alert.Title, alert.Description, alert.System}
	}, predicates...)

	page, pageSize := pageParams(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":   listview.Paginate(filtered, page, pageSize),
		"counts": derive.CountBySeverity(alerts),
	})
}

func (a *API) ListVehicleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := a.fleet.ListVehicleTypes(r.Context())
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  types,
		"counts": derive.CountByStatus(types, func(t model.VehicleType) string { return t.Status }),
	})
}

func (a *API) CreateVehicleType(w http.ResponseWriter, r *http.Request) {
	a.passthroughCreate(w, r, a.fleet.CreateVehicleType)
}

func (a *API) UpdateVehicleType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Vehicle type id must be numeric")
		return
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(payload) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	raw, err := a.fleet.UpdateVehicleType(r.Context(), id, payload)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (a *API) DeleteVehicleType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Vehicle type id must be numeric")
		return
	}
	if err := a.fleet.DeleteVehicleType(r.Context(), id); err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deviceRows(r *http.Request) ([]model.DeviceRow, error) {
	if snapshot, ok := a.snapshots.Snapshot(); ok {
		return snapshot.Devices, nil
	}
	snapshot, err := a.snapshots.Refresh(r.Context())
	if err != nil {
		return nil, err
	}
	return snapshot.Devices, nil
}

// passthroughCreate forwards an opaque JSON body to a platform create
// endpoint; the platform owns validation.
func (a *API) passthroughCreate(w http.ResponseWriter, r *http.Request, create func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)) {
	payload, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(payload) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	raw, err := create(r.Context(), payload)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(raw)
}

// pageParams reads 1-indexed pagination parameters. A request that
// carries filter params but no explicit page lands on page 1, so a filter
// change never leaves the client on an out-of-range page.
func pageParams(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			pageSize = v
			if pageSize > maxPageSize {
				pageSize = maxPageSize
			}
		}
	}
	return page, pageSize
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
