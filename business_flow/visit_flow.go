package businessflow

import (
	"context"
	"log"

	"github.com/kompihq/kompi-links/app/services"
	"github.com/kompihq/kompi-links/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var redirectsServed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "link_redirects_served_total",
	Help: "Redirects issued for active short codes",
})

// VisitFlow resolves a short code into a redirect target and triggers
// click recording. The single blocking step is the link lookup; the
// recording is dispatched fire-and-forget and cannot delay the
// redirect. Unknown and inactive codes both resolve to
// ErrLinkNotFound with no distinguishing signal.
type VisitFlow interface {
	Visit(ctx context.Context, code string, referer, userAgent *string) (string, error)
}

type VisitFlowImpl struct {
	linkRepo repository.LinkRepository
	recorder ClickRecorder
	cache    *services.LinkCache
}

func NewVisitFlow(linkRepo repository.LinkRepository, recorder ClickRecorder, cache *services.LinkCache) VisitFlow {
	return &VisitFlowImpl{linkRepo: linkRepo, recorder: recorder, cache: cache}
}

func (f *VisitFlowImpl) Visit(ctx context.Context, code string, referer, userAgent *string) (string, error) {
	if cached, ok := f.cache.Get(ctx, code); ok {
		f.recorder.Record(cached.LinkID, referer, userAgent)
		redirectsServed.Inc()
		return cached.TargetURL, nil
	}

	link, err := f.linkRepo.ActiveByCode(ctx, code)
	if err != nil {
		return "", NewBusinessError("LINK_LOOKUP_FAILED", "Failed to lookup link", err)
	}
	if link == nil {
		return "", ErrLinkNotFound
	}

	target := normalizeTargetURL(link.TargetURL)
	if target == "" {
		log.Printf("link %d has an unusable target URL", link.ID)
		return "", ErrInvalidTargetURL
	}

	f.cache.Set(ctx, code, services.CachedLink{LinkID: link.ID, TargetURL: target})

	f.recorder.Record(link.ID, referer, userAgent)
	redirectsServed.Inc()
	return target, nil
}
