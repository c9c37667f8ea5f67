package derive

import (
	"reflect"
	"testing"

	"github.com/joulepoint/fleet-console/internal/model"
)

func TestCountByStatus(t *testing.T) {
	sims := []model.SimCard{
		{SimID: "SIM-1", Status: "active"},
		{SimID: "SIM-2", Status: "Active"},
		{SimID: "SIM-3", Status: " suspended "},
		{SimID: "SIM-4"},
	}
	got := CountByStatus(sims, func(sim model.SimCard) string { return sim.Status })
	want := map[string]int{"active": 2, "suspended": 1, "unknown": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountByStatus = %v, want %v", got, want)
	}
}

func TestCountByStatusEmptyInput(t *testing.T) {
	got := CountByStatus(nil, func(v model.VehicleType) string { return v.Status })
	if len(got) != 0 {
		t.Fatalf("CountByStatus(nil) = %v, want empty map", got)
	}
}
