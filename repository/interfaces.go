// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kompihq/kompi-links/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// LinkRepository defines operations for links
type LinkRepository interface {
	Repository[models.Link, models.LinkFilter]
	ByUUID(ctx context.Context, uid uuid.UUID) (*models.Link, error)
	ByCode(ctx context.Context, code string) (*models.Link, error)
	ActiveByCode(ctx context.Context, code string) (*models.Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByWorkspace(ctx context.Context, workspaceID uint, limit, offset int) ([]*models.Link, error)
	CountByWorkspace(ctx context.Context, workspaceID uint) (int64, error)
	Update(ctx context.Context, link *models.Link) error
	IncrementClicks(ctx context.Context, linkID uint) error
	RaiseClicksTo(ctx context.Context, linkID uint, count int64) (bool, error)
	DeleteWithEvents(ctx context.Context, linkID uint) error
}

// ClickEventRepository defines operations for click events
type ClickEventRepository interface {
	Repository[models.ClickEvent, models.ClickEventFilter]
	ListRecentByLink(ctx context.Context, linkID uint, limit int) ([]*models.ClickEvent, error)
	CountByLink(ctx context.Context, linkID uint) (int64, error)
	ListByWorkspace(ctx context.Context, workspaceID uint, from, to time.Time) ([]*models.ClickEvent, error)
	CountByWorkspace(ctx context.Context, workspaceID uint, from, to time.Time) (int64, error)
	CountGroupedByLink(ctx context.Context) (map[uint]int64, error)
}

// WorkspaceRepository defines read operations for workspaces.
// The engine never mutates workspaces; it only resolves plans for
// quota checks.
type WorkspaceRepository interface {
	Repository[models.Workspace, models.WorkspaceFilter]
	ByUUID(ctx context.Context, uid uuid.UUID) (*models.Workspace, error)
	BySlug(ctx context.Context, slug string) (*models.Workspace, error)
}
