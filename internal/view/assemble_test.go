package view

import (
	"testing"
	"time"

	"github.com/joulepoint/fleet-console/internal/model"
)

func f(v float64) *float64 { return &v }

func ts(now time.Time, age time.Duration) string {
	return now.Add(-age).Format(time.RFC3339)
}

func TestAssembleEmptyFleet(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	snapshot := Assemble(nil, nil, nil, now)

	if snapshot.Telemetry != nil {
		t.Fatalf("Telemetry = %+v, want nil for empty fleet", snapshot.Telemetry)
	}
	if len(snapshot.Devices) != 0 || len(snapshot.Alerts) != 0 {
		t.Fatal("empty fleet should produce empty rows and alerts")
	}
	if snapshot.KPI.TotalVehicles == nil || *snapshot.KPI.TotalVehicles != 0 {
		t.Fatalf("TotalVehicles = %v, want 0", snapshot.KPI.TotalVehicles)
	}
	if snapshot.KPI.AverageSocPercent != nil {
		t.Fatalf("AverageSocPercent = %d, want nil with no samples", *snapshot.KPI.AverageSocPercent)
	}
	if snapshot.KPI.MaintenanceTickets != nil {
		t.Fatal("MaintenanceTickets must stay nil")
	}
	if !snapshot.FetchedAt.Equal(now) {
		t.Fatalf("FetchedAt = %v, want %v", snapshot.FetchedAt, now)
	}
}

func TestAssembleKPIAndRows(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	devices := []model.Device{
		{
			ID: 1, DeviceID: "OBD-001", Model: "VT-400",
			LastCommunicationAt: ts(now, 5*time.Minute),
			FirmwareVersion:     "2.4.1",
			SimCard: &model.SimCard{
				PlanDataLimitGB:   f(10),
				CurrentDataUsedGB: f(4),
			},
		},
		{
			// Stale and without a SIM: two synthesized warnings on this row.
			ID: 2, DeviceID: "OBD-002",
			LastCommunicationAt: ts(now, 100*time.Hour),
		},
		{ID: 3}, // never reported, no external id
	}
	soc := map[int64]*float64{1: f(82), 2: nil}
	locations := map[int64]*model.DeviceLocation{
		1: {Address: "Depot 4"},
	}

	snapshot := Assemble(devices, soc, locations, now)

	if got := *snapshot.KPI.TotalVehicles; got != 3 {
		t.Fatalf("TotalVehicles = %d, want 3", got)
	}
	if got := *snapshot.KPI.VehiclesOnline; got != 1 {
		t.Fatalf("VehiclesOnline = %d, want 1", got)
	}
	// Every synthesized alert counts toward the headline number.
	if got := *snapshot.KPI.CriticalAlerts; got != len(snapshot.Alerts) {
		t.Fatalf("CriticalAlerts = %d, want alert count %d", got, len(snapshot.Alerts))
	}
	if got := *snapshot.KPI.AverageSocPercent; got != 82 {
		t.Fatalf("AverageSocPercent = %d, want 82", got)
	}

	rows := snapshot.Devices
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Health != model.HealthGood || rows[0].LastContact != "5m ago" {
		t.Fatalf("row 0 = %+v, want good health reported 5m ago", rows[0])
	}
	if rows[0].SimUsagePercent == nil || *rows[0].SimUsagePercent != 40 {
		t.Fatalf("row 0 sim usage = %v, want 40", rows[0].SimUsagePercent)
	}
	if rows[0].Location == nil || rows[0].Location.Address != "Depot 4" {
		t.Fatalf("row 0 location = %+v, want Depot 4", rows[0].Location)
	}
	if rows[1].Health != model.HealthCritical || rows[1].WarningsCount != 2 {
		t.Fatalf("row 1 = %+v, want critical with 2 warnings", rows[1])
	}
	if rows[2].DeviceID != "Device-3" {
		t.Fatalf("row 2 label = %q, want generated fallback", rows[2].DeviceID)
	}
	if rows[2].LastContact != "—" {
		t.Fatalf("row 2 last contact = %q, want em dash", rows[2].LastContact)
	}
}

func TestTelemetryPrefersActiveDevice(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	devices := []model.Device{
		{ID: 1, DeviceID: "IDLE", LastCommunicationAt: ts(now, time.Hour)},
		{ID: 2, DeviceID: "LIVE", IsActive: true, LastCommunicationAt: ts(now, 2*time.Minute)},
	}
	soc := map[int64]*float64{2: f(64)}

	telemetry := Telemetry(devices, soc, nil, now)
	if telemetry == nil || telemetry.DeviceID != "LIVE" {
		t.Fatalf("Telemetry = %+v, want the active device", telemetry)
	}
	if telemetry.SocPercent == nil || *telemetry.SocPercent != 64 {
		t.Fatalf("telemetry soc = %v, want 64", telemetry.SocPercent)
	}
	if telemetry.LastUpdate != "2m ago" {
		t.Fatalf("LastUpdate = %q, want 2m ago", telemetry.LastUpdate)
	}

	// No active device: fall back to the first listed.
	devices[1].IsActive = false
	telemetry = Telemetry(devices, soc, nil, now)
	if telemetry == nil || telemetry.DeviceID != "IDLE" {
		t.Fatalf("Telemetry fallback = %+v, want first device", telemetry)
	}
}
