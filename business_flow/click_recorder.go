package businessflow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kompihq/kompi-links/models"
	"github.com/kompihq/kompi-links/repository"
	"github.com/kompihq/kompi-links/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickEventsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "click_events_recorded_total",
		Help: "Click events durably appended with their counter increment",
	})

	clickRecordFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "click_record_failures_total",
		Help: "Click recording failures, absorbed and never surfaced to redirects",
	}, []string{"stage"})
)

// ClickRecorder durably appends one ClickEvent per resolved visit and
// bumps the link's denormalized counter. Record is fire-and-forget:
// it returns before the writes happen and its failures are logged and
// swallowed, because recording must never delay or fail a redirect.
type ClickRecorder interface {
	Record(linkID uint, referer, userAgent *string)
	Wait()
}

type ClickRecorderImpl struct {
	eventRepo repository.ClickEventRepository
	linkRepo  repository.LinkRepository
	timeout   time.Duration

	wg sync.WaitGroup
}

func NewClickRecorder(eventRepo repository.ClickEventRepository, linkRepo repository.LinkRepository, timeout time.Duration) ClickRecorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ClickRecorderImpl{
		eventRepo: eventRepo,
		linkRepo:  linkRepo,
		timeout:   timeout,
	}
}

func (r *ClickRecorderImpl) Record(linkID uint, referer, userAgent *string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		// Two separate writes on purpose: the event log is the source
		// of truth, the counter is a fast approximate cache of it. A
		// crash between them leaves the counter behind; the reconciler
		// catches it up later.
		event := &models.ClickEvent{
			LinkID:    linkID,
			Referer:   referer,
			UserAgent: userAgent,
			CreatedAt: utils.UTCNow(),
		}
		if err := r.eventRepo.Save(ctx, event); err != nil {
			clickRecordFailures.WithLabelValues("event_insert").Inc()
			log.Printf("click event insert failed for link %d: %v", linkID, err)
			return
		}

		if err := r.linkRepo.IncrementClicks(ctx, linkID); err != nil {
			clickRecordFailures.WithLabelValues("counter_increment").Inc()
			log.Printf("click counter increment failed for link %d: %v", linkID, err)
			return
		}

		clickEventsRecorded.Inc()
	}()
}

// Wait blocks until all in-flight recordings have finished. Used on
// shutdown so accepted redirects drain their click writes.
func (r *ClickRecorderImpl) Wait() {
	r.wg.Wait()
}
