package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace plan tiers used to cap link creation
const (
	PlanFree    = "FREE"
	PlanCreator = "CREATOR"
)

// Workspace is the tenant boundary owning a set of links.
// The engine reads it for quota checks only; workspace CRUD and billing
// live elsewhere.
type Workspace struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_workspaces_uuid" json:"uuid"`
	Name string    `gorm:"size:255;not null" json:"name"`
	Slug string    `gorm:"size:64;not null;uniqueIndex:uk_workspaces_slug" json:"slug"`
	Plan string    `gorm:"size:32;not null;default:FREE" json:"plan"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Workspace
func (Workspace) TableName() string { return "workspaces" }

// WorkspaceFilter provides filter fields for repository queries
type WorkspaceFilter struct {
	ID   *uint
	UUID *uuid.UUID
	Slug *string
	Plan *string
}
