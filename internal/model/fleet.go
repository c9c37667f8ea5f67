package model

// Device is an OBD telemetry unit as reported by the fleet platform.
// Timestamps stay raw strings; the platform occasionally returns malformed
// or empty values and derivation guards every parse.
type Device struct {
	ID                  int64    `json:"id"`
	DeviceID            string   `json:"device_id"`
	Model               string   `json:"model,omitempty"`
	Vehicle             *int64   `json:"vehicle,omitempty"`
	FirmwareVersion     string   `json:"firmware_version,omitempty"`
	LastCommunicationAt string   `json:"last_communication_at,omitempty"`
	IsActive            bool     `json:"is_active,omitempty"`
	SimCard             *SimCard `json:"sim_card,omitempty"`
}

// SimCard is the connectivity record embedded in a Device.
type SimCard struct {
	SimID             string   `json:"sim_id"`
	Status            string   `json:"status,omitempty"`
	PlanDataLimitGB   *float64 `json:"plan_data_limit_gb,omitempty"`
	CurrentDataUsedGB *float64 `json:"current_data_used_gb,omitempty"`
	LastActivity      string   `json:"last_activity,omitempty"`
	OverageThreshold  *float64 `json:"overage_threshold,omitempty"`
	SignalStrength    string   `json:"signal_strength,omitempty"`
}

// Vehicle is fetched independently of Device and correlated only through
// the Device.Vehicle foreign key.
type Vehicle struct {
	ID             int64    `json:"id"`
	Make           string   `json:"make,omitempty"`
	Model          string   `json:"model,omitempty"`
	Year           int      `json:"year,omitempty"`
	VehicleType    string   `json:"vehicle_type,omitempty"`
	BatteryPercent *float64 `json:"battery_percent,omitempty"`
	MileageKm      *float64 `json:"mileage_km,omitempty"`
	KmPerKwh       *float64 `json:"km_per_kwh,omitempty"`
	HealthStatus   string   `json:"health_status,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// VehicleType is a platform-managed category record.
type VehicleType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// DeviceMetrics is the per-device metrics payload.
type DeviceMetrics struct {
	SocPercent *float64 `json:"soc_percent"`
}

// DeviceLocation is the per-device location payload.
type DeviceLocation struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
}

// FleetAlert is a backend-owned alert record from /api/fleet/alerts/.
// Distinct from AlertItem, which this service synthesizes locally.
type FleetAlert struct {
	ID           int64  `json:"id"`
	Severity     string `json:"severity"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Vehicle      *int64 `json:"vehicle,omitempty"`
	System       string `json:"system,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	Acknowledged bool   `json:"acknowledged,omitempty"`
	Ignored      bool   `json:"ignored,omitempty"`
}
