package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kompihq/kompi-links/models"
	"gorm.io/gorm"
)

// ClickEventRepositoryImpl implements ClickEventRepository
type ClickEventRepositoryImpl struct {
	*BaseRepository[models.ClickEvent, models.ClickEventFilter]
}

func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &ClickEventRepositoryImpl{BaseRepository: NewBaseRepository[models.ClickEvent, models.ClickEventFilter](db)}
}

func (r *ClickEventRepositoryImpl) ByID(ctx context.Context, id uint) (*models.ClickEvent, error) {
	db := r.getDB(ctx)
	var row models.ClickEvent
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ClickEventRepositoryImpl) applyFilter(db *gorm.DB, f models.ClickEventFilter) *gorm.DB {
	if f.LinkID != nil {
		db = db.Where("link_id = ?", *f.LinkID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *f.CreatedBefore)
	}
	return db
}

func (r *ClickEventRepositoryImpl) ByFilter(ctx context.Context, filter models.ClickEventFilter, orderBy string, limit, offset int) ([]*models.ClickEvent, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ClickEvent{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ClickEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClickEventRepositoryImpl) Count(ctx context.Context, filter models.ClickEventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ClickEvent{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClickEventRepositoryImpl) Exists(ctx context.Context, filter models.ClickEventFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListRecentByLink returns the newest events first. The aggregator must
// not assume this order reflects insertion order under concurrency;
// only created_at is meaningful.
func (r *ClickEventRepositoryImpl) ListRecentByLink(ctx context.Context, linkID uint, limit int) ([]*models.ClickEvent, error) {
	return r.ByFilter(ctx, models.ClickEventFilter{LinkID: &linkID}, "created_at DESC, id DESC", limit, 0)
}

func (r *ClickEventRepositoryImpl) CountByLink(ctx context.Context, linkID uint) (int64, error) {
	return r.Count(ctx, models.ClickEventFilter{LinkID: &linkID})
}

func (r *ClickEventRepositoryImpl) ListByWorkspace(ctx context.Context, workspaceID uint, from, to time.Time) ([]*models.ClickEvent, error) {
	db := r.getDB(ctx)
	var rows []*models.ClickEvent
	err := db.Model(&models.ClickEvent{}).
		Joins("JOIN links ON links.id = click_events.link_id").
		Where("links.workspace_id = ?", workspaceID).
		Where("click_events.created_at >= ? AND click_events.created_at <= ?", from, to).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClickEventRepositoryImpl) CountByWorkspace(ctx context.Context, workspaceID uint, from, to time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.ClickEvent{}).
		Joins("JOIN links ON links.id = click_events.link_id").
		Where("links.workspace_id = ?", workspaceID).
		Where("click_events.created_at >= ? AND click_events.created_at <= ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountGroupedByLink returns exact event counts per link for counter
// reconciliation.
func (r *ClickEventRepositoryImpl) CountGroupedByLink(ctx context.Context) (map[uint]int64, error) {
	db := r.getDB(ctx)
	type pair struct {
		LinkID uint
		Cnt    int64
	}
	var pairs []pair
	err := db.Model(&models.ClickEvent{}).
		Select("link_id, COUNT(*) AS cnt").
		Group("link_id").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(pairs))
	for _, p := range pairs {
		out[p.LinkID] = p.Cnt
	}
	return out, nil
}
