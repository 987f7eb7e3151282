package businessflow

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/kompihq/kompi-links/app/dto"
	"github.com/kompihq/kompi-links/config"
	"github.com/kompihq/kompi-links/repository"
	"github.com/kompihq/kompi-links/utils"
)

const (
	// dashboardDays is the fixed per-link chart window; every day in it
	// is pre-seeded so the chart has no gaps.
	dashboardDays = 14

	// linkEventScan caps how many recent events feed the per-link view
	linkEventScan = 365

	topReferrersPerLink     = 5
	topReferrersPerOverview = 10
	recentEventsLimit       = 20

	// defaultOverviewDays is the trailing window when no range is given
	defaultOverviewDays = 7
)

// AnalyticsFlow derives reporting views from the click event log.
// Events are treated as an unordered set keyed by created_at; exact
// figures always come from the log, never from the denormalized
// counter.
type AnalyticsFlow interface {
	LinkAnalytics(ctx context.Context, ref string) (*dto.LinkAnalyticsResponse, error)
	WorkspaceOverview(ctx context.Context, workspaceID uint, from, to *time.Time) (*dto.AnalyticsOverviewResponse, error)
}

type AnalyticsFlowImpl struct {
	linkRepo      repository.LinkRepository
	eventRepo     repository.ClickEventRepository
	workspaceRepo repository.WorkspaceRepository
	cfg           config.AppConfig
}

func NewAnalyticsFlow(
	linkRepo repository.LinkRepository,
	eventRepo repository.ClickEventRepository,
	workspaceRepo repository.WorkspaceRepository,
	cfg config.AppConfig,
) AnalyticsFlow {
	return &AnalyticsFlowImpl{
		linkRepo:      linkRepo,
		eventRepo:     eventRepo,
		workspaceRepo: workspaceRepo,
		cfg:           cfg,
	}
}

// growthPct computes period-over-period growth as a rounded integer
// percentage. A silent previous period reads as +100% on any activity
// and 0% on none; this zero-denominator policy is deliberate.
func growthPct(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

type bucket struct {
	label string
	count int64
}

// sortBuckets orders by count descending with the label as a stable
// tie-break so equal counts render deterministically.
func sortBuckets(m map[string]int64) []bucket {
	out := make([]bucket, 0, len(m))
	for label, count := range m {
		out = append(out, bucket{label: label, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}

func (f *AnalyticsFlowImpl) LinkAnalytics(ctx context.Context, ref string) (*dto.LinkAnalyticsResponse, error) {
	link, err := resolveLinkRef(ctx, f.linkRepo, ref)
	if err != nil {
		return nil, err
	}

	totalClicks, err := f.eventRepo.CountByLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_COUNT_FAILED", "Failed to count click events", err)
	}

	events, err := f.eventRepo.ListRecentByLink(ctx, link.ID, linkEventScan)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_LIST_FAILED", "Failed to list click events", err)
	}

	now := utils.UTCNow()
	sevenDaysAgo := now.AddDate(0, 0, -7)
	fourteenDaysAgo := now.AddDate(0, 0, -14)
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	var last7, last30, prev7 int64
	dayCounts := make(map[string]int64)
	for _, ev := range events {
		at := ev.CreatedAt.UTC()
		if !at.Before(sevenDaysAgo) {
			last7++
		} else if !at.Before(fourteenDaysAgo) {
			prev7++
		}
		if !at.Before(thirtyDaysAgo) {
			last30++
		}
		dayCounts[utils.DayKey(at)]++
	}

	timeseries := make([]dto.TimeseriesPointDTO, 0, dashboardDays)
	for i := dashboardDays - 1; i >= 0; i-- {
		key := utils.DayKey(now.AddDate(0, 0, -i))
		timeseries = append(timeseries, dto.TimeseriesPointDTO{Date: key, Count: dayCounts[key]})
	}

	refCounts := make(map[string]int64)
	deviceCounts := make(map[string]int64)
	for _, ev := range events {
		refCounts[ReferrerLabel(ev.Referer)]++
		deviceCounts[ClassifyDevice(ev.UserAgent)]++
	}

	referrers := make([]dto.ReferrerCountDTO, 0, topReferrersPerLink)
	for i, b := range sortBuckets(refCounts) {
		if i == topReferrersPerLink {
			break
		}
		referrers = append(referrers, dto.ReferrerCountDTO{Referer: b.label, Count: b.count})
	}

	devices := make([]dto.DeviceCountDTO, 0, len(deviceCounts))
	for _, b := range sortBuckets(deviceCounts) {
		pct := 0
		if totalClicks > 0 {
			pct = int(math.Round(float64(b.count) / float64(totalClicks) * 100))
		}
		devices = append(devices, dto.DeviceCountDTO{Device: b.label, Count: b.count, Pct: pct})
	}

	recent := make([]dto.ClickEventDTO, 0, recentEventsLimit)
	for i, ev := range events {
		if i == recentEventsLimit {
			break
		}
		recent = append(recent, mapClickEventDTO(ev))
	}

	return &dto.LinkAnalyticsResponse{
		Link: mapLinkDTO(link, f.cfg.PublicBaseURL),
		LinkSummary: dto.LinkSummaryDTO{
			TotalClicks: totalClicks,
			Last7:       last7,
			Last30:      last30,
			Growth7:     growthPct(last7, prev7),
		},
		Timeseries:   timeseries,
		Referrers:    referrers,
		Devices:      devices,
		RecentEvents: recent,
	}, nil
}

func (f *AnalyticsFlowImpl) WorkspaceOverview(ctx context.Context, workspaceID uint, from, to *time.Time) (*dto.AnalyticsOverviewResponse, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrStartDateAfterEndDate
	}

	workspace, err := f.workspaceRepo.ByID(ctx, workspaceID)
	if err != nil {
		return nil, NewBusinessError("WORKSPACE_LOOKUP_FAILED", "Failed to lookup workspace", err)
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	toDate := utils.EndOfDayUTC(utils.UTCNow())
	if to != nil {
		toDate = utils.EndOfDayUTC(*to)
	}
	fromDate := utils.StartOfDayUTC(toDate.AddDate(0, 0, -defaultOverviewDays))
	if from != nil {
		fromDate = utils.StartOfDayUTC(*from)
	}

	daySpan := int(utils.StartOfDayUTC(toDate).Sub(fromDate).Hours()/24) + 1
	if daySpan < 1 {
		daySpan = 1
	}
	prevTo := utils.EndOfDayUTC(fromDate.AddDate(0, 0, -1))
	prevFrom := utils.StartOfDayUTC(prevTo.AddDate(0, 0, -(daySpan - 1)))

	events, err := f.eventRepo.ListByWorkspace(ctx, workspace.ID, fromDate, toDate)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_LIST_FAILED", "Failed to list click events", err)
	}
	prevCount, err := f.eventRepo.CountByWorkspace(ctx, workspace.ID, prevFrom, prevTo)
	if err != nil {
		return nil, NewBusinessError("ANALYTICS_COUNT_FAILED", "Failed to count previous period", err)
	}

	total := int64(len(events))

	dayCounts := make(map[string]int64)
	deviceCounts := make(map[string]int64)
	refCounts := make(map[string]int64)
	for _, ev := range events {
		dayCounts[utils.DayKey(ev.CreatedAt)]++
		deviceCounts[ClassifyDevice(ev.UserAgent)]++
		refCounts[TidyReferrerKey(ev.Referer)]++
	}

	timeseries := make([]dto.TimeseriesPointDTO, 0, daySpan)
	for i := 0; i < daySpan; i++ {
		key := utils.DayKey(fromDate.AddDate(0, 0, i))
		timeseries = append(timeseries, dto.TimeseriesPointDTO{Date: key, Count: dayCounts[key]})
	}

	// topDate is the first day holding the maximum; null when the whole
	// window is silent.
	var topDate *dto.TimeseriesPointDTO
	for i := range timeseries {
		if timeseries[i].Count > 0 && (topDate == nil || timeseries[i].Count > topDate.Count) {
			topDate = &timeseries[i]
		}
	}

	byDevice := make([]dto.DeviceCountDTO, 0, len(deviceCounts))
	for _, b := range sortBuckets(deviceCounts) {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(b.count) / float64(total) * 100))
		}
		byDevice = append(byDevice, dto.DeviceCountDTO{Device: b.label, Count: b.count, Pct: pct})
	}

	byReferrer := make([]dto.ReferrerCountDTO, 0, topReferrersPerOverview)
	for i, b := range sortBuckets(refCounts) {
		if i == topReferrersPerOverview {
			break
		}
		byReferrer = append(byReferrer, dto.ReferrerCountDTO{Referer: b.label, Count: b.count})
	}

	return &dto.AnalyticsOverviewResponse{
		DateRange: dto.DateRangeDTO{
			From: fromDate.Format(time.RFC3339),
			To:   toDate.Format(time.RFC3339),
		},
		TotalEngagements: total,
		Growth:           growthPct(total, prevCount),
		TopDate:          topDate,
		Timeseries:       timeseries,
		ByDevice:         byDevice,
		ByReferrer:       byReferrer,
		// Reserved until geo-IP enrichment lands; stays an empty
		// array, never null.
		ByCountry: []dto.CountryCountDTO{},
	}, nil
}
