package dto

// TimeseriesPointDTO is one calendar-day bucket (UTC)
type TimeseriesPointDTO struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// ReferrerCountDTO is one referrer bucket; empty referers collapse to "Direct"
type ReferrerCountDTO struct {
	Referer string `json:"referer"`
	Count   int64  `json:"count"`
}

// DeviceCountDTO is one device bucket with its share of the total
type DeviceCountDTO struct {
	Device string `json:"device"`
	Count  int64  `json:"count"`
	Pct    int    `json:"pct"`
}

// CountryCountDTO is reserved until geo-IP data is wired in; consumers
// must tolerate an empty list
type CountryCountDTO struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// ClickEventDTO is one raw recorded visit
type ClickEventDTO struct {
	ID        uint    `json:"id"`
	Referer   *string `json:"referer"`
	UserAgent *string `json:"user_agent"`
	CreatedAt string  `json:"created_at"`
}

// LinkSummaryDTO carries headline figures for one link. TotalClicks is
// computed from the event log, not the denormalized counter.
type LinkSummaryDTO struct {
	TotalClicks int64 `json:"total_clicks"`
	Last7       int64 `json:"last_7"`
	Last30      int64 `json:"last_30"`
	Growth7     int   `json:"growth_7"`
}

// LinkAnalyticsResponse is the per-link analytics view
type LinkAnalyticsResponse struct {
	Link         LinkDTO              `json:"link"`
	LinkSummary  LinkSummaryDTO       `json:"link_summary"`
	Timeseries   []TimeseriesPointDTO `json:"timeseries"`
	Referrers    []ReferrerCountDTO   `json:"referrers"`
	Devices      []DeviceCountDTO     `json:"devices"`
	RecentEvents []ClickEventDTO      `json:"recent_events"`
}

// DateRangeDTO bounds an analytics window
type DateRangeDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AnalyticsOverviewResponse is the workspace-wide analytics view
type AnalyticsOverviewResponse struct {
	DateRange        DateRangeDTO         `json:"date_range"`
	TotalEngagements int64                `json:"total_engagements"`
	Growth           int                  `json:"growth"`
	TopDate          *TimeseriesPointDTO  `json:"top_date"`
	Timeseries       []TimeseriesPointDTO `json:"timeseries"`
	ByDevice         []DeviceCountDTO     `json:"by_device"`
	ByReferrer       []ReferrerCountDTO   `json:"by_referrer"`
	ByCountry        []CountryCountDTO    `json:"by_country"`
}
