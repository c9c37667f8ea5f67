package derive

import (
	"testing"
	"time"

	"github.com/joulepoint/fleet-console/internal/model"
)

func TestAverageSoC(t *testing.T) {
	devices := []model.Device{{ID: 1}, {ID: 2}, {ID: 3}}

	if got := AverageSoC(devices, map[int64]*float64{}); got != nil {
		t.Fatalf("AverageSoC with no samples = %d, want nil", *got)
	}

	// Missing samples are excluded from the mean, never treated as zero.
	soc := map[int64]*float64{1: f(80), 2: nil, 3: f(71)}
	got := AverageSoC(devices, soc)
	if got == nil || *got != 76 {
		t.Fatalf("AverageSoC = %v, want 76", got)
	}
}

func TestOnlineRatio(t *testing.T) {
	if got := OnlineRatio(3, 0); got != nil {
		t.Fatalf("OnlineRatio with empty fleet = %v, want nil", *got)
	}
	got := OnlineRatio(1, 3)
	if got == nil || *got != 33.3 {
		t.Fatalf("OnlineRatio(1, 3) = %v, want 33.3", got)
	}
	got = OnlineRatio(10, 10)
	if got == nil || *got != 100 {
		t.Fatalf("OnlineRatio(10, 10) = %v, want 100", got)
	}
}

func TestKWhPer100km(t *testing.T) {
	cases := map[float64]float64{
		0:   0,
		-5:  0,
		20:  5.0,
		15:  6.7,
		6.5: 15.4,
	}
	for in, want := range cases {
		if got := KWhPer100km(in); got != want {
			t.Fatalf("KWhPer100km(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestReportingRecentlyIgnoresUnparseable(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	devices := []model.Device{
		{ID: 1, LastCommunicationAt: now.Add(-time.Hour).Format(time.RFC3339)},
		{ID: 2, LastCommunicationAt: "garbage"},
		{ID: 3},
		{ID: 4, LastCommunicationAt: now.Add(-30 * time.Hour).Format(time.RFC3339)},
	}
	if got := ReportingRecently(devices, now); got != 1 {
		t.Fatalf("ReportingRecently = %d, want 1", got)
	}
}
