package derive

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joulepoint/fleet-console/internal/model"
)

// SynthesizeAlerts builds the alert feed from device state. No backend
// alert record exists for these conditions; they are manufactured on every
// fetch cycle and discarded on the next.
//
// Per device, in input order:
//   - stale communication (critical classification) emits a critical alert;
//   - independently, either a missing SIM or high SIM data usage emits a
//     warning (the two are mutually exclusive per device).
func SynthesizeAlerts(devices []model.Device, now time.Time) []model.AlertItem {
	alerts := make([]model.AlertItem, 0, len(devices))
	for _, device := range devices {
		label := VehicleLabel(device)

		if ClassifyHealth(device.LastCommunicationAt, now) == model.HealthCritical {
			alerts = append(alerts, model.AlertItem{
				ID:           fmt.Sprintf("stale-%d", device.ID),
				Severity:     model.SeverityCritical,
				Title:        "Device Communication Stale",
				Description:  "No recent telemetry (>72h). Check power/connectivity.",
				VehicleLabel: label,
				System:       "Telematics",
				Ago:          FormatAgo(device.LastCommunicationAt, now),
			})
		}

		if device.SimCard == nil {
			alerts = append(alerts, model.AlertItem{
				ID:           fmt.Sprintf("nosim-%d", device.ID),
				Severity:     model.SeverityWarning,
				Title:        "No SIM Assigned",
				Description:  "Device has no SIM; data upload may fail.",
				VehicleLabel: label,
				System:       "Connectivity",
				Ago:          FormatAgo(device.LastCommunicationAt, now),
			})
		} else if fraction, ok := SimUsageFraction(device.SimCard); ok {
			threshold := valueOr(device.SimCard.OverageThreshold, defaultOverageThreshold)
			if fraction >= threshold {
				alerts = append(alerts, model.AlertItem{
					ID:           fmt.Sprintf("data-%d", device.ID),
					Severity:     model.SeverityWarning,
					Title:        "High SIM Data Usage",
					Description:  fmt.Sprintf("Usage at %d%% of plan.", int(math.Round(fraction*100))),
					VehicleLabel: label,
					System:       "Connectivity",
					Ago:          FormatAgo(firstNonEmpty(device.SimCard.LastActivity, device.LastCommunicationAt), now),
				})
			}
		}
	}
	return alerts
}

// SimUsageFraction is used/limit, defined only for a positive plan limit.
func SimUsageFraction(sim *model.SimCard) (float64, bool) {
	if sim == nil {
		return 0, false
	}
	limit := valueOr(sim.PlanDataLimitGB, 0)
	if limit <= 0 {
		return 0, false
	}
	return valueOr(sim.CurrentDataUsedGB, 0) / limit, true
}

// SimUsagePercent is the usage fraction as a rounded whole percentage.
func SimUsagePercent(sim *model.SimCard) *int {
	fraction, ok := SimUsageFraction(sim)
	if !ok {
		return nil
	}
	pct := int(math.Round(fraction * 100))
	return &pct
}

// VehicleLabel names a device for display: its device id, or a generated
// fallback when the platform left it blank.
func VehicleLabel(device model.Device) string {
	if device.DeviceID != "" {
		return device.DeviceID
	}
	return fmt.Sprintf("Device-%d", device.ID)
}

// CountBySeverity tallies backend alerts, keeping ignored ones out of the
// per-severity counts.
func CountBySeverity(alerts []model.FleetAlert) model.AlertCounts {
	var counts model.AlertCounts
	for _, alert := range alerts {
		if alert.Ignored {
			counts.Ignored++
			continue
		}
		switch model.Severity(strings.ToLower(alert.Severity)) {
		case model.SeverityCritical:
			counts.Critical++
		case model.SeverityWarning:
			counts.Warning++
		case model.SeverityInfo:
			counts.Info++
		}
	}
	return counts
}

func firstNonEmpty(items ...string) string {
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			return item
		}
	}
	return ""
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
