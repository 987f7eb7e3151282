package models

import "time"

// ClickEvent represents a single resolved visit on a link.
// Rows are append-only: nothing in the engine updates or deletes them,
// except the cascade when the owning link is deleted.
// Referer and UserAgent keep the raw header values; classification
// happens at read time in the aggregator.
type ClickEvent struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	LinkID    uint    `gorm:"not null;index:idx_click_events_link_id" json:"link_id"`
	Referer   *string `gorm:"type:text" json:"referer,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_click_events_created_at" json:"created_at"`
}

// TableName returns the table name for ClickEvent
func (ClickEvent) TableName() string { return "click_events" }

// ClickEventFilter provides filter fields for repository queries
type ClickEventFilter struct {
	LinkID        *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
