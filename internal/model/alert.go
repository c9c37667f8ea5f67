package model

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityResolved Severity = "resolved"
)

type Health string

const (
	HealthGood     Health = "good"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

// AlertItem is synthesized from Device/SimCard state on every fetch cycle.
// It is never persisted; the next cycle rebuilds the list from scratch.
type AlertItem struct {
	ID           string   `json:"id"`
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VehicleLabel string   `json:"vehicle_label"`
	System       string   `json:"system"`
	Ago          string   `json:"ago"`
}

// AlertCounts tallies backend alerts by severity, skipping ignored ones.
type AlertCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Ignored  int `json:"ignored"`
}
