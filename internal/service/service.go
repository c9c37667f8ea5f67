// Package service runs the fetch cycle: pull the device list from the
// platform, enrich a bounded subset with per-device details, derive the
// dashboard snapshot, and publish it.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joulepoint/fleet-console/internal/model"
	"github.com/joulepoint/fleet-console/internal/view"
)

// Detail fetches are capped to the first N devices to bound request
// fan-out against the platform.
const detailFetchLimit = 10

// Platform is the slice of the API client the fetch cycle needs.
type Platform interface {
	ListDevices(ctx context.Context) ([]model.Device, error)
	DeviceMetrics(ctx context.Context, id int64) (model.DeviceMetrics, error)
	DeviceLocation(ctx context.Context, id int64) (*model.DeviceLocation, error)
}

type Service struct {
	platform Platform
	logger   *slog.Logger
	clock    func() time.Time

	mu        sync.RWMutex
	snapshot  *model.DashboardSnapshot
	soc       map[int64]*float64
	locations map[int64]*model.DeviceLocation
}

func New(platform Platform, logger *slog.Logger) *Service {
	return &Service{
		platform:  platform,
		logger:    logger,
		clock:     time.Now,
		soc:       make(map[int64]*float64),
		locations: make(map[int64]*model.DeviceLocation),
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Refresh runs one full fetch cycle and returns the published snapshot.
// The device list fetch is fatal for the cycle; per-device detail fetches
// are not — a failing detail call degrades that one device to unknown.
func (s *Service) Refresh(ctx context.Context) (*model.DashboardSnapshot, error) {
	devices, err := s.platform.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	socUpdates, locationUpdates := s.fetchDetails(ctx, devices)

	// The consumer may be gone by the time the joins complete; drop the
	// results rather than mutating published state.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	mergeByKey(s.soc, socUpdates)
	mergeByKey(s.locations, locationUpdates)
	snapshot := view.Assemble(devices, s.soc, s.locations, s.clock())
	s.snapshot = snapshot
	s.mu.Unlock()

	return snapshot, nil
}

// Snapshot returns the last published snapshot, if any cycle completed.
func (s *Service) Snapshot() (*model.DashboardSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot, true
}

// fetchDetails resolves metrics and location for the first
// detailFetchLimit devices concurrently. Every device in the subset gets
// an entry in both result maps; a failed call records nil so the previous
// value (if any) is overwritten rather than silently kept fresh.
func (s *Service) fetchDetails(ctx context.Context, devices []model.Device) (map[int64]*float64, map[int64]*model.DeviceLocation) {
	subset := devices
	if len(subset) > detailFetchLimit {
		subset = subset[:detailFetchLimit]
	}

	socUpdates := make(map[int64]*float64, len(subset))
	locationUpdates := make(map[int64]*model.DeviceLocation, len(subset))
	var mu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(detailFetchLimit)

	for _, device := range subset {
		device := device
		g.Go(func() error {
			metrics, err := s.platform.DeviceMetrics(ctx, device.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Debug("device metrics fetch failed", "device_id", device.ID, "err", err)
				socUpdates[device.ID] = nil
				return nil
			}
			socUpdates[device.ID] = metrics.SocPercent
			return nil
		})
		g.Go(func() error {
			location, err := s.platform.DeviceLocation(ctx, device.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Debug("device location fetch failed", "device_id", device.ID, "err", err)
				locationUpdates[device.ID] = nil
				return nil
			}
			locationUpdates[device.ID] = location
			return nil
		})
	}
	_ = g.Wait()

	return socUpdates, locationUpdates
}

// mergeByKey folds late-arriving per-device values into the retained map;
// each update touches only its own device's slot.
func mergeByKey[V any](dst, src map[int64]V) {
	for id, value := range src {
		dst[id] = value
	}
}
