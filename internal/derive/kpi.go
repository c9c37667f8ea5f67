package derive

import (
	"math"
	"time"

	"github.com/joulepoint/fleet-console/internal/model"
)

// ReportingRecently counts devices that communicated within the recent
// window. Devices with missing or unparseable timestamps never count.
func ReportingRecently(devices []model.Device, now time.Time) int {
	count := 0
	for _, device := range devices {
		if ReportedRecently(device.LastCommunicationAt, now) {
			count++
		}
	}
	return count
}

// AverageSoC is the mean state of charge across devices with a known
// sample, rounded to the nearest whole percent. Nil when no samples exist;
// missing samples are never coerced to zero.
func AverageSoC(devices []model.Device, socByDeviceID map[int64]*float64) *int {
	var sum float64
	var n int
	for _, device := range devices {
		if soc := socByDeviceID[device.ID]; soc != nil {
			sum += *soc
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(sum / float64(n)))
	return &avg
}

// OnlineRatio is reporting/total as a percentage with one decimal.
// Undefined (nil) for an empty fleet.
func OnlineRatio(reporting, total int) *float64 {
	if total == 0 {
		return nil
	}
	ratio := round1(float64(reporting) / float64(total) * 100)
	return &ratio
}

// KWhPer100km converts a km-per-kWh efficiency figure to consumption per
// 100 km, one decimal. Non-positive input yields 0.
func KWhPer100km(kmPerKwh float64) float64 {
	if kmPerKwh <= 0 {
		return 0
	}
	return round1(100 / kmPerKwh)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
