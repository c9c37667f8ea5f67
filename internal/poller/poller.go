package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joulepoint/fleet-console/internal/model"
)

// Refresher runs one fetch cycle.
type Refresher interface {
	Refresh(ctx context.Context) (*model.DashboardSnapshot, error)
}

// Poller refreshes the dashboard snapshot on an interval, with a
// coalescing channel for manual triggers.
type Poller struct {
	refresher  Refresher
	interval   time.Duration
	onSnapshot func(*model.DashboardSnapshot)
	refreshCh  chan struct{}
	logger     *slog.Logger
}

func New(refresher Refresher, interval time.Duration, onSnapshot func(*model.DashboardSnapshot), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		refresher:  refresher,
		interval:   interval,
		onSnapshot: onSnapshot,
		refreshCh:  make(chan struct{}, 1),
		logger:     logger,
	}
}

// TriggerRefresh requests an immediate cycle; duplicate triggers coalesce.
func (p *Poller) TriggerRefresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.refreshCh:
			timer.Stop()
		case <-timer.C:
		}

		snapshot, err := p.refresher.Refresh(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			p.logger.Error("refresh cycle failed", "err", err)
			continue
		}
		if p.onSnapshot != nil {
			p.onSnapshot(snapshot)
		}
	}
}
