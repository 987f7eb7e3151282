package businessflow

import (
	"net/url"
	"regexp"
	"strings"
)

// Device buckets produced by ClassifyDevice
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
	DeviceBot     = "Bot"
	DeviceUnknown = "Unknown"
	DeviceOther   = "Other"
)

// ClassifyDevice maps a raw User-Agent header to a coarse device
// bucket via case-insensitive substring matching. This is a heuristic,
// not a parser; the buckets and matching order are part of the output
// contract and must not change silently.
func ClassifyDevice(userAgent *string) string {
	if userAgent == nil {
		return DeviceUnknown
	}
	ua := strings.ToLower(*userAgent)
	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "iphone"), strings.Contains(ua, "android"):
		return DeviceMobile
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return DeviceTablet
	case strings.Contains(ua, "bot"), strings.Contains(ua, "spider"), strings.Contains(ua, "crawl"):
		return DeviceBot
	case strings.Contains(ua, "windows"), strings.Contains(ua, "macintosh"), strings.Contains(ua, "linux"):
		return DeviceDesktop
	default:
		return DeviceOther
	}
}

// DirectReferrer is the bucket for empty referers in per-link views
const DirectReferrer = "Direct"

// ReferrerLabel collapses nil/empty referer values into the Direct
// bucket and keeps the literal header value otherwise.
func ReferrerLabel(referer *string) string {
	if referer == nil || strings.TrimSpace(*referer) == "" {
		return DirectReferrer
	}
	return *referer
}

var appSchemeRe = regexp.MustCompile(`(?i)^(android-app|ios-app)://`)

// TidyReferrerKey reduces a raw referer header to a host-level bucket
// for the workspace overview: blank values become "direct", app-store
// style referers become "app", everything else is parsed as a URL
// (bare hosts get an https:// prefix first) and keyed by hostname with
// any leading www. stripped.
func TidyReferrerKey(referer *string) string {
	raw := ""
	if referer != nil {
		raw = strings.TrimSpace(*referer)
	}
	if raw == "" || raw == "about:blank" {
		return "direct"
	}
	if appSchemeRe.MatchString(raw) {
		return "app"
	}
	maybeURL := raw
	if !targetSchemeRe.MatchString(raw) {
		maybeURL = "https://" + raw
	}
	u, err := url.Parse(maybeURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "unknown"
	}
	return host
}
