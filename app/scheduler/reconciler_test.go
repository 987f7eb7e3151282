package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kompihq/kompi-links/repository"
)

// The stubs embed the repository interfaces and override only what the
// reconciler touches; anything else panics loudly.
type stubLinkRepo struct {
	repository.LinkRepository
	mu     sync.Mutex
	raised map[uint]int64
	fail   map[uint]bool
}

func (s *stubLinkRepo) RaiseClicksTo(ctx context.Context, linkID uint, count int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[linkID] {
		return false, errors.New("deadlock detected")
	}
	if s.raised == nil {
		s.raised = make(map[uint]int64)
	}
	if count <= s.raised[linkID] {
		return false, nil
	}
	s.raised[linkID] = count
	return true, nil
}

func (s *stubLinkRepo) raisedCounts() map[uint]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint]int64, len(s.raised))
	for k, v := range s.raised {
		out[k] = v
	}
	return out
}

type stubEventRepo struct {
	repository.ClickEventRepository
	counts map[uint]int64
	err    error
}

func (s *stubEventRepo) CountGroupedByLink(ctx context.Context) (map[uint]int64, error) {
	return s.counts, s.err
}

func TestRunOnceRaisesLaggingCounters(t *testing.T) {
	linkRepo := &stubLinkRepo{}
	eventRepo := &stubEventRepo{counts: map[uint]int64{1: 5, 2: 3}}

	r := NewClickReconciler(linkRepo, eventRepo, time.Minute)
	r.runOnce(context.Background())

	assert.Equal(t, map[uint]int64{1: 5, 2: 3}, linkRepo.raisedCounts())

	// A second pass over the same log finds nothing to repair.
	r.runOnce(context.Background())
	assert.Equal(t, map[uint]int64{1: 5, 2: 3}, linkRepo.raisedCounts())
}

func TestRunOnceContinuesPastPerLinkFailures(t *testing.T) {
	linkRepo := &stubLinkRepo{fail: map[uint]bool{1: true}}
	eventRepo := &stubEventRepo{counts: map[uint]int64{1: 5, 2: 3}}

	r := NewClickReconciler(linkRepo, eventRepo, time.Minute)
	r.runOnce(context.Background())

	counts := linkRepo.raisedCounts()
	_, repairedFailing := counts[1]
	assert.False(t, repairedFailing)
	assert.Equal(t, int64(3), counts[2])
}

func TestRunOnceSkipsWhenLogUnreadable(t *testing.T) {
	linkRepo := &stubLinkRepo{}
	eventRepo := &stubEventRepo{err: errors.New("connection refused")}

	r := NewClickReconciler(linkRepo, eventRepo, time.Minute)
	r.runOnce(context.Background())

	assert.Empty(t, linkRepo.raisedCounts())
}

func TestStartStopsOnCancel(t *testing.T) {
	linkRepo := &stubLinkRepo{}
	eventRepo := &stubEventRepo{counts: map[uint]int64{1: 2}}

	r := NewClickReconciler(linkRepo, eventRepo, time.Hour)
	stop := r.Start(context.Background())
	defer stop()

	// The first pass runs immediately on start.
	assert.Eventually(t, func() bool {
		return linkRepo.raisedCounts()[1] == 2
	}, time.Second, 10*time.Millisecond)

	stop()
}

func TestNewClickReconcilerDefaultsInterval(t *testing.T) {
	r := NewClickReconciler(&stubLinkRepo{}, &stubEventRepo{}, 0)
	assert.Equal(t, 15*time.Minute, r.interval)
}
