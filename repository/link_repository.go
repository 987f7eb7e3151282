package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kompihq/kompi-links/models"
	"gorm.io/gorm"
)

// LinkRepositoryImpl implements LinkRepository
type LinkRepositoryImpl struct {
	*BaseRepository[models.Link, models.LinkFilter]
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &LinkRepositoryImpl{BaseRepository: NewBaseRepository[models.Link, models.LinkFilter](db)}
}

func (r *LinkRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Link, error) {
	db := r.getDB(ctx)
	var row models.Link
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LinkRepositoryImpl) ByUUID(ctx context.Context, uid uuid.UUID) (*models.Link, error) {
	filter := models.LinkFilter{UUID: &uid}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *LinkRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Link, error) {
	filter := models.LinkFilter{Code: &code}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ActiveByCode returns the active link for code, or nil when the code
// is unknown or disabled. Callers must not distinguish the two cases.
func (r *LinkRepositoryImpl) ActiveByCode(ctx context.Context, code string) (*models.Link, error) {
	active := true
	filter := models.LinkFilter{Code: &code, IsActive: &active}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *LinkRepositoryImpl) CodeExists(ctx context.Context, code string) (bool, error) {
	return r.Exists(ctx, models.LinkFilter{Code: &code})
}

func (r *LinkRepositoryImpl) applyFilter(db *gorm.DB, f models.LinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.WorkspaceID != nil {
		db = db.Where("workspace_id = ?", *f.WorkspaceID)
	}
	if f.Code != nil {
		db = db.Where("code = ?", *f.Code)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *LinkRepositoryImpl) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Link
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkRepositoryImpl) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LinkRepositoryImpl) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *LinkRepositoryImpl) ListByWorkspace(ctx context.Context, workspaceID uint, limit, offset int) ([]*models.Link, error) {
	return r.ByFilter(ctx, models.LinkFilter{WorkspaceID: &workspaceID}, "created_at DESC, id DESC", limit, offset)
}

func (r *LinkRepositoryImpl) CountByWorkspace(ctx context.Context, workspaceID uint) (int64, error) {
	return r.Count(ctx, models.LinkFilter{WorkspaceID: &workspaceID})
}

// Update writes only the editable columns. The clicks counter is never
// part of the SET list: it is owned by the store-side increment and the
// reconciler, and a full-row save here would clobber increments that
// landed after the row was read.
func (r *LinkRepositoryImpl) Update(ctx context.Context, link *models.Link) error {
	db := r.getDB(ctx)
	return db.Model(&models.Link{}).
		Where("id = ?", link.ID).
		Updates(map[string]any{
			"code":       link.Code,
			"target_url": link.TargetURL,
			"title":      link.Title,
			"is_active":  link.IsActive,
			"updated_at": link.UpdatedAt,
		}).Error
}

// IncrementClicks bumps the denormalized counter with a store-side
// atomic increment. Never read-modify-write in application code: that
// loses updates under concurrent clicks on the same link.
func (r *LinkRepositoryImpl) IncrementClicks(ctx context.Context, linkID uint) error {
	db := r.getDB(ctx)
	res := db.Model(&models.Link{}).
		Where("id = ?", linkID).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("link %d not found for click increment", linkID)
	}
	return nil
}

// RaiseClicksTo lifts the counter up to count without ever lowering it.
// Used by the reconciler; the event log stays the source of truth.
// Returns true when a row was actually raised.
func (r *LinkRepositoryImpl) RaiseClicksTo(ctx context.Context, linkID uint, count int64) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.Link{}).
		Where("id = ? AND clicks < ?", linkID, count).
		UpdateColumn("clicks", count)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteWithEvents removes the link and cascades to its click events
// in one transaction.
func (r *LinkRepositoryImpl) DeleteWithEvents(ctx context.Context, linkID uint) error {
	return WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		db := r.getDB(txCtx)
		if err := db.Where("link_id = ?", linkID).Delete(&models.ClickEvent{}).Error; err != nil {
			return err
		}
		res := db.Delete(&models.Link{}, linkID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("link %d not found for delete", linkID)
		}
		return nil
	})
}
