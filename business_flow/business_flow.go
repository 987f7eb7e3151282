// Package businessflow contains the business logic for the link engine.
package businessflow

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kompihq/kompi-links/app/dto"
	"github.com/kompihq/kompi-links/models"
)

var targetSchemeRe = regexp.MustCompile(`(?i)^https?://`)

// normalizeTargetURL trims the raw destination and prefixes https://
// when no http(s) scheme is present. Returns "" for unusable input.
func normalizeTargetURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if targetSchemeRe.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// buildShortURL joins the public base URL with the redirect path for a
// code. Display only; resolution works on the path code alone.
func buildShortURL(baseURL, code string) string {
	return fmt.Sprintf("%s/r/%s", strings.TrimRight(baseURL, "/"), code)
}

func mapLinkDTO(m *models.Link, baseURL string) dto.LinkDTO {
	return dto.LinkDTO{
		UUID:        m.UUID.String(),
		WorkspaceID: m.WorkspaceID,
		Code:        m.Code,
		TargetURL:   m.TargetURL,
		ShortURL:    buildShortURL(baseURL, m.Code),
		Title:       m.Title,
		IsActive:    m.IsActive,
		Clicks:      m.Clicks,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func mapClickEventDTO(e *models.ClickEvent) dto.ClickEventDTO {
	return dto.ClickEventDTO{
		ID:        e.ID,
		Referer:   e.Referer,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
