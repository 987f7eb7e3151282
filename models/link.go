package models

import (
	"time"

	"github.com/google/uuid"
)

// Link represents one short-code mapping owned by a workspace.
// Code is unique across the entire system, not per workspace.
// Clicks is a denormalized counter over click_events; it is eventually
// consistent with the event log and never decreases.
type Link struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_links_uuid" json:"uuid"`
	WorkspaceID uint      `gorm:"not null;index:idx_links_workspace_id" json:"workspace_id"`
	Code        string    `gorm:"size:64;not null;uniqueIndex:uk_links_code" json:"code"`
	TargetURL   string    `gorm:"type:text;not null" json:"target_url"`
	Title       *string   `gorm:"size:255" json:"title,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Clicks      int64     `gorm:"not null;default:0" json:"clicks"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_links_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Link
func (Link) TableName() string { return "links" }

// LinkFilter provides filter fields for repository queries
type LinkFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkspaceID   *uint
	Code          *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
