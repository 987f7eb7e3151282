// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kompihq/kompi-links/repository"
)

var reconcilerRepairsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "click_counter_repairs_total",
		Help: "Number of link click counters raised to match the event log",
	},
)

// ClickReconciler periodically re-derives per-link click totals from the
// event log and raises any denormalized counter that fell behind. The
// recorder inserts the event and bumps the counter as two separate
// writes, so a crash between them leaves the counter low; this worker
// closes that gap. Counters are only ever raised, never lowered.
type ClickReconciler struct {
	linkRepo  repository.LinkRepository
	eventRepo repository.ClickEventRepository
	logger    *log.Logger
	interval  time.Duration
}

func NewClickReconciler(
	linkRepo repository.LinkRepository,
	eventRepo repository.ClickEventRepository,
	interval time.Duration,
) *ClickReconciler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ClickReconciler{
		linkRepo:  linkRepo,
		eventRepo: eventRepo,
		logger:    log.Default(),
		interval:  interval,
	}
}

// Start launches the reconciler loop in a background goroutine and returns a stop function
func (s *ClickReconciler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *ClickReconciler) runOnce(ctx context.Context) {
	counts, err := s.eventRepo.CountGroupedByLink(ctx)
	if err != nil {
		s.logger.Printf("reconciler: grouped event count failed: %v", err)
		return
	}
	if len(counts) == 0 {
		return
	}

	var repaired int
	for linkID, count := range counts {
		if ctx.Err() != nil {
			return
		}
		raised, err := s.linkRepo.RaiseClicksTo(ctx, linkID, count)
		if err != nil {
			s.logger.Printf("reconciler: raise clicks failed for link id=%d: %v", linkID, err)
			continue
		}
		if raised {
			repaired++
			reconcilerRepairsTotal.Inc()
		}
	}
	if repaired > 0 {
		s.logger.Printf("reconciler: repaired %d click counters", repaired)
	}
}
