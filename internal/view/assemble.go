// Package view composes derivation outputs into the exact shapes the
// dashboard widgets consume.
package view

import (
	"time"

	"github.com/joulepoint/fleet-console/internal/derive"
	"github.com/joulepoint/fleet-console/internal/model"
)

// Assemble builds the full dashboard snapshot from a resolved device list
// and whatever per-device detail values have arrived so far.
func Assemble(
	devices []model.Device,
	socByDeviceID map[int64]*float64,
	locationByDeviceID map[int64]*model.DeviceLocation,
	now time.Time,
) *model.DashboardSnapshot {
	alerts := derive.SynthesizeAlerts(devices, now)
	return &model.DashboardSnapshot{
		KPI:       KPIs(devices, alerts, socByDeviceID, now),
		Alerts:    alerts,
		Devices:   DeviceRows(devices, socByDeviceID, locationByDeviceID, now),
		Telemetry: Telemetry(devices, socByDeviceID, locationByDeviceID, now),
		FetchedAt: now.UTC(),
	}
}

// KPIs fills the KPI bar. Maintenance tickets come from a backend surface
// this service does not consume, so the slot stays nil.
func KPIs(devices []model.Device, alerts []model.AlertItem, socByDeviceID map[int64]*float64, now time.Time) model.KPIBar {
	total := len(devices)
	reporting := derive.ReportingRecently(devices, now)
	alertCount := len(alerts)
	return model.KPIBar{
		VehiclesOnline:    &reporting,
		TotalVehicles:     &total,
		CriticalAlerts:    &alertCount,
		AverageSocPercent: derive.AverageSoC(devices, socByDeviceID),
	}
}

// DeviceRows projects devices into table rows, merging in any detail
// values already fetched for each device id.
func DeviceRows(
	devices []model.Device,
	socByDeviceID map[int64]*float64,
	locationByDeviceID map[int64]*model.DeviceLocation,
	now time.Time,
) []model.DeviceRow {
	rows := make([]model.DeviceRow, 0, len(devices))
	for _, device := range devices {
		rows = append(rows, model.DeviceRow{
			ID:              device.ID,
			DeviceID:        derive.VehicleLabel(device),
			Model:           device.Model,
			Health:          derive.ClassifyHealth(device.LastCommunicationAt, now),
			LastContact:     derive.FormatAgo(device.LastCommunicationAt, now),
			WarningsCount:   len(derive.SynthesizeAlerts([]model.Device{device}, now)),
			SimUsagePercent: derive.SimUsagePercent(device.SimCard),
			SocPercent:      socByDeviceID[device.ID],
			Location:        locationByDeviceID[device.ID],
			FirmwareVersion: device.FirmwareVersion,
		})
	}
	return rows
}

// Telemetry picks the widget's device: the first active one, else the
// first in the list. Nil for an empty fleet.
func Telemetry(
	devices []model.Device,
	socByDeviceID map[int64]*float64,
	locationByDeviceID map[int64]*model.DeviceLocation,
	now time.Time,
) *model.TelemetryView {
	if len(devices) == 0 {
		return nil
	}
	selected := devices[0]
	for _, device := range devices {
		if device.IsActive {
			selected = device
			break
		}
	}
	return &model.TelemetryView{
		DeviceID:   derive.VehicleLabel(selected),
		SocPercent: socByDeviceID[selected.ID],
		Location:   locationByDeviceID[selected.ID],
		LastUpdate: derive.FormatAgo(selected.LastCommunicationAt, now),
	}
}
