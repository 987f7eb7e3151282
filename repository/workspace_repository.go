package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kompihq/kompi-links/models"
	"gorm.io/gorm"
)

// WorkspaceRepositoryImpl implements WorkspaceRepository
type WorkspaceRepositoryImpl struct {
	*BaseRepository[models.Workspace, models.WorkspaceFilter]
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &WorkspaceRepositoryImpl{BaseRepository: NewBaseRepository[models.Workspace, models.WorkspaceFilter](db)}
}

func (r *WorkspaceRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Workspace, error) {
	db := r.getDB(ctx)
	var row models.Workspace
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkspaceRepositoryImpl) ByUUID(ctx context.Context, uid uuid.UUID) (*models.Workspace, error) {
	rows, err := r.ByFilter(ctx, models.WorkspaceFilter{UUID: &uid}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *WorkspaceRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	rows, err := r.ByFilter(ctx, models.WorkspaceFilter{Slug: &slug}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *WorkspaceRepositoryImpl) applyFilter(db *gorm.DB, f models.WorkspaceFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Slug != nil {
		db = db.Where("slug = ?", *f.Slug)
	}
	if f.Plan != nil {
		db = db.Where("plan = ?", *f.Plan)
	}
	return db
}

func (r *WorkspaceRepositoryImpl) ByFilter(ctx context.Context, filter models.WorkspaceFilter, orderBy string, limit, offset int) ([]*models.Workspace, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Workspace{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Workspace
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *WorkspaceRepositoryImpl) Count(ctx context.Context, filter models.WorkspaceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Workspace{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WorkspaceRepositoryImpl) Exists(ctx context.Context, filter models.WorkspaceFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
