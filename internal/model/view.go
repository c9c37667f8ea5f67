package model

import "time"

// KPIBar carries the dashboard headline numbers. Nil means not yet known;
// the UI renders null as an em dash, never as zero.
type KPIBar struct {
	VehiclesOnline     *int `json:"vehicles_online"`
	TotalVehicles      *int `json:"total_vehicles"`
	CriticalAlerts     *int `json:"critical_alerts"`
	AverageSocPercent  *int `json:"average_soc_percent"`
	MaintenanceTickets *int `json:"maintenance_tickets"`
}

// DeviceRow is one row of the fleet table. LastContact is a precomputed
// ago string so render logic never reformats time.
type DeviceRow struct {
	ID              int64           `json:"id"`
	DeviceID        string          `json:"device_id"`
	Model           string          `json:"model,omitempty"`
	Health          Health          `json:"health"`
	LastContact     string          `json:"last_contact"`
	WarningsCount   int             `json:"warnings_count"`
	SimUsagePercent *int            `json:"sim_usage_percent,omitempty"`
	SocPercent      *float64        `json:"soc_percent,omitempty"`
	Location        *DeviceLocation `json:"location,omitempty"`
	FirmwareVersion string          `json:"firmware_version,omitempty"`
}

// TelemetryView is the live-telemetry widget payload for the selected device.
type TelemetryView struct {
	DeviceID   string          `json:"device_id"`
	SocPercent *float64        `json:"soc_percent,omitempty"`
	Location   *DeviceLocation `json:"location,omitempty"`
	LastUpdate string          `json:"last_update"`
}

// DashboardSnapshot is the full view model published after each fetch cycle.
type DashboardSnapshot struct {
	KPI       KPIBar         `json:"kpi"`
	Alerts    []AlertItem    `json:"alerts"`
	Devices   []DeviceRow    `json:"devices"`
	Telemetry *TelemetryView `json:"telemetry,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`
}
