package businessflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kompihq/kompi-links/models"
)

// Function-backed repository fakes. Tests set only the hooks they
// need; everything else returns zero values.

type mockLinkRepo struct {
	byIDFn             func(ctx context.Context, id uint) (*models.Link, error)
	byUUIDFn           func(ctx context.Context, uid uuid.UUID) (*models.Link, error)
	byCodeFn           func(ctx context.Context, code string) (*models.Link, error)
	activeByCodeFn     func(ctx context.Context, code string) (*models.Link, error)
	codeExistsFn       func(ctx context.Context, code string) (bool, error)
	listByWorkspaceFn  func(ctx context.Context, workspaceID uint, limit, offset int) ([]*models.Link, error)
	countByWorkspaceFn func(ctx context.Context, workspaceID uint) (int64, error)
	saveFn             func(ctx context.Context, link *models.Link) error
	updateFn           func(ctx context.Context, link *models.Link) error
	incrementClicksFn  func(ctx context.Context, linkID uint) error
	raiseClicksToFn    func(ctx context.Context, linkID uint, count int64) (bool, error)
	deleteWithEventsFn func(ctx context.Context, linkID uint) error
}

func (m *mockLinkRepo) ByID(ctx context.Context, id uint) (*models.Link, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockLinkRepo) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	return nil, nil
}

func (m *mockLinkRepo) Save(ctx context.Context, link *models.Link) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepo) SaveBatch(ctx context.Context, links []*models.Link) error { return nil }

func (m *mockLinkRepo) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	return 0, nil
}

func (m *mockLinkRepo) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	return false, nil
}

func (m *mockLinkRepo) ByUUID(ctx context.Context, uid uuid.UUID) (*models.Link, error) {
	if m.byUUIDFn != nil {
		return m.byUUIDFn(ctx, uid)
	}
	return nil, nil
}

func (m *mockLinkRepo) ByCode(ctx context.Context, code string) (*models.Link, error) {
	if m.byCodeFn != nil {
		return m.byCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockLinkRepo) ActiveByCode(ctx context.Context, code string) (*models.Link, error) {
	if m.activeByCodeFn != nil {
		return m.activeByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockLinkRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.codeExistsFn != nil {
		return m.codeExistsFn(ctx, code)
	}
	return false, nil
}

func (m *mockLinkRepo) ListByWorkspace(ctx context.Context, workspaceID uint, limit, offset int) ([]*models.Link, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID, limit, offset)
	}
	return nil, nil
}

func (m *mockLinkRepo) CountByWorkspace(ctx context.Context, workspaceID uint) (int64, error) {
	if m.countByWorkspaceFn != nil {
		return m.countByWorkspaceFn(ctx, workspaceID)
	}
	return 0, nil
}

func (m *mockLinkRepo) Update(ctx context.Context, link *models.Link) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepo) IncrementClicks(ctx context.Context, linkID uint) error {
	if m.incrementClicksFn != nil {
		return m.incrementClicksFn(ctx, linkID)
	}
	return nil
}

func (m *mockLinkRepo) RaiseClicksTo(ctx context.Context, linkID uint, count int64) (bool, error) {
	if m.raiseClicksToFn != nil {
		return m.raiseClicksToFn(ctx, linkID, count)
	}
	return false, nil
}

func (m *mockLinkRepo) DeleteWithEvents(ctx context.Context, linkID uint) error {
	if m.deleteWithEventsFn != nil {
		return m.deleteWithEventsFn(ctx, linkID)
	}
	return nil
}

type mockClickEventRepo struct {
	saveFn               func(ctx context.Context, event *models.ClickEvent) error
	listRecentByLinkFn   func(ctx context.Context, linkID uint, limit int) ([]*models.ClickEvent, error)
	countByLinkFn        func(ctx context.Context, linkID uint) (int64, error)
	listByWorkspaceFn    func(ctx context.Context, workspaceID uint, from, to time.Time) ([]*models.ClickEvent, error)
	countByWorkspaceFn   func(ctx context.Context, workspaceID uint, from, to time.Time) (int64, error)
	countGroupedByLinkFn func(ctx context.Context) (map[uint]int64, error)
}

func (m *mockClickEventRepo) ByID(ctx context.Context, id uint) (*models.ClickEvent, error) {
	return nil, nil
}

func (m *mockClickEventRepo) ByFilter(ctx context.Context, filter models.ClickEventFilter, orderBy string, limit, offset int) ([]*models.ClickEvent, error) {
	return nil, nil
}

func (m *mockClickEventRepo) Save(ctx context.Context, event *models.ClickEvent) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, event)
	}
	return nil
}

func (m *mockClickEventRepo) SaveBatch(ctx context.Context, events []*models.ClickEvent) error {
	return nil
}

func (m *mockClickEventRepo) Count(ctx context.Context, filter models.ClickEventFilter) (int64, error) {
	return 0, nil
}

func (m *mockClickEventRepo) Exists(ctx context.Context, filter models.ClickEventFilter) (bool, error) {
	return false, nil
}

func (m *mockClickEventRepo) ListRecentByLink(ctx context.Context, linkID uint, limit int) ([]*models.ClickEvent, error) {
	if m.listRecentByLinkFn != nil {
		return m.listRecentByLinkFn(ctx, linkID, limit)
	}
	return nil, nil
}

func (m *mockClickEventRepo) CountByLink(ctx context.Context, linkID uint) (int64, error) {
	if m.countByLinkFn != nil {
		return m.countByLinkFn(ctx, linkID)
	}
	return 0, nil
}

func (m *mockClickEventRepo) ListByWorkspace(ctx context.Context, workspaceID uint, from, to time.Time) ([]*models.ClickEvent, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID, from, to)
	}
	return nil, nil
}

func (m *mockClickEventRepo) CountByWorkspace(ctx context.Context, workspaceID uint, from, to time.Time) (int64, error) {
	if m.countByWorkspaceFn != nil {
		return m.countByWorkspaceFn(ctx, workspaceID, from, to)
	}
	return 0, nil
}

func (m *mockClickEventRepo) CountGroupedByLink(ctx context.Context) (map[uint]int64, error) {
	if m.countGroupedByLinkFn != nil {
		return m.countGroupedByLinkFn(ctx)
	}
	return nil, nil
}

type mockWorkspaceRepo struct {
	byIDFn   func(ctx context.Context, id uint) (*models.Workspace, error)
	byUUIDFn func(ctx context.Context, uid uuid.UUID) (*models.Workspace, error)
	bySlugFn func(ctx context.Context, slug string) (*models.Workspace, error)
}

func (m *mockWorkspaceRepo) ByID(ctx context.Context, id uint) (*models.Workspace, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceRepo) ByFilter(ctx context.Context, filter models.WorkspaceFilter, orderBy string, limit, offset int) ([]*models.Workspace, error) {
	return nil, nil
}

func (m *mockWorkspaceRepo) Save(ctx context.Context, workspace *models.Workspace) error { return nil }

func (m *mockWorkspaceRepo) SaveBatch(ctx context.Context, workspaces []*models.Workspace) error {
	return nil
}

func (m *mockWorkspaceRepo) Count(ctx context.Context, filter models.WorkspaceFilter) (int64, error) {
	return 0, nil
}

func (m *mockWorkspaceRepo) Exists(ctx context.Context, filter models.WorkspaceFilter) (bool, error) {
	return false, nil
}

func (m *mockWorkspaceRepo) ByUUID(ctx context.Context, uid uuid.UUID) (*models.Workspace, error) {
	if m.byUUIDFn != nil {
		return m.byUUIDFn(ctx, uid)
	}
	return nil, nil
}

func (m *mockWorkspaceRepo) BySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	if m.bySlugFn != nil {
		return m.bySlugFn(ctx, slug)
	}
	return nil, nil
}
