package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/joulepoint/fleet-console/internal/credentials"
	"github.com/joulepoint/fleet-console/internal/model"
)

// Login exchanges a password for a token pair and stores both tokens.
func (c *Client) Login(ctx context.Context, username, password string) error {
	raw, err := c.Do(ctx, http.MethodPost, loginPath, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	return c.creds.Set(ctx, credentials.Tokens{Access: payload.AccessToken, Refresh: payload.RefreshToken})
}

// Logout drops stored credentials.
func (c *Client) Logout(ctx context.Context) error {
	return c.creds.Clear(ctx)
}

// HasCredentials reports whether an access token is stored.
func (c *Client) HasCredentials(ctx context.Context) bool {
	tokens, err := c.creds.Get(ctx)
	return err == nil && tokens.Access != ""
}

func (c *Client) ListDevices(ctx context.Context) ([]model.Device, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/api/fleet/obd-devices/", nil)
	if err != nil {
		return nil, err
	}
	return UnwrapList[model.Device](raw)
}

func (c *Client) GetDevice(ctx context.Context, id int64) (model.Device, error) {
	raw, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/fleet/obd-devices/%d/", id), nil)
	if err != nil {
		return model.Device{}, err
	}
	var device model.Device
	if err := json.Unmarshal(raw, &device); err != nil {
		return model.Device{}, fmt.Errorf("decode device: %w", err)
	}
	return device, nil
}

// CreateDevice passes an opaque payload through; the platform owns validation.
func (c *Client) CreateDevice(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/api/fleet/obd-devices/", payload)
}

func (c *Client) DeviceMetrics(ctx context.Context, id int64) (model.DeviceMetrics, error) {
	raw, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/fleet/obd-devices/%d/metrics/", id), nil)
	if err != nil {
		return model.DeviceMetrics{}, err
	}
	var metrics model.DeviceMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return model.DeviceMetrics{}, fmt.Errorf("decode device metrics: %w", err)
	}
	return metrics, nil
}

func (c *Client) DeviceLocation(ctx context.Context, id int64) (*model.DeviceLocation, error) {
	raw, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/fleet/obd-devices/%d/location/", id), nil)
	if err != nil {
		return nil, err
	}
	var location model.DeviceLocation
	if err := json.Unmarshal(raw, &location); err != nil {
		return nil, fmt.Errorf("decode device location: %w", err)
	}
	return &location, nil
}

func (c *Client) ListSims(ctx context.Context) ([]model.SimCard, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/api/fleet/sims/", nil)
	if err != nil {
		return nil, err
	}
	return UnwrapList[model.SimCard](raw)
}

func (c *Client) CreateSim(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/api/fleet/sims/", payload)
}

func (c *Client) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/api/fleet/vehicles/", nil)
	if err != nil {
		return nil, err
	}
	return UnwrapList[model.Vehicle](raw)
}

func (c *Client) GetVehicle(ctx context.Context, id int64) (model.Vehicle, error) {
	raw, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/fleet/vehicles/%d/", id), nil)
	if err != nil {
		return model.Vehicle{}, err
	}
	var vehicle model.Vehicle
	if err := json.Unmarshal(raw, &vehicle); err != nil {
		return model.Vehicle{}, fmt.Errorf("decode vehicle: %w", err)
	}
	return vehicle, nil
}

func (c *Client) ListAlerts(ctx context.Context) ([]model.FleetAlert, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/api/fleet/alerts/", nil)
	if err != nil {
		return nil, err
	}
	return UnwrapList[model.FleetAlert](raw)
}

func (c *Client) ListVehicleTypes(ctx context.Context) ([]model.VehicleType, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/api/fleet/vehicle-types/", nil)
	if err != nil {
		return nil, err
	}
	return UnwrapList[model.VehicleType](raw)
}

func (c *Client) CreateVehicleType(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/api/fleet/vehicle-types/", payload)
}

func (c *Client) UpdateVehicleType(ctx context.Context, id int64, payload json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, fmt.Sprintf("/api/fleet/vehicle-types/%d/", id), payload)
}

func (c *Client) DeleteVehicleType(ctx context.Context, id int64) error {
	_, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/fleet/vehicle-types/%d/", id), nil)
	return err
}

// DashboardSummary proxies the backend's own aggregate endpoint.
func (c *Client) DashboardSummary(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/api/fleet/dashboard/summary/", nil)
}
