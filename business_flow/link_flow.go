package businessflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kompihq/kompi-links/app/dto"
	"github.com/kompihq/kompi-links/app/services"
	"github.com/kompihq/kompi-links/config"
	"github.com/kompihq/kompi-links/models"
	"github.com/kompihq/kompi-links/repository"
	"github.com/kompihq/kompi-links/utils"
)

// insertRetries bounds how often creation redraws a generated code
// after losing the insert race to a concurrent creation. The store's
// unique constraint is what makes the race safe; this only bounds the
// churn.
const insertRetries = 5

// LinkFlow handles link creation, listing, mutation and deletion.
// Creation owns the uniqueness-guaranteed code assignment and the
// per-workspace plan quota check.
type LinkFlow interface {
	CreateLink(ctx context.Context, req *dto.CreateLinkRequest) (*dto.LinkDTO, error)
	GetLink(ctx context.Context, ref string) (*dto.LinkDTO, error)
	ListLinks(ctx context.Context, workspaceID uint, limit, offset int) (*dto.ListLinksResponse, error)
	UpdateLink(ctx context.Context, ref string, req *dto.UpdateLinkRequest) (*dto.LinkDTO, error)
	DeleteLink(ctx context.Context, ref string) error
}

type LinkFlowImpl struct {
	linkRepo      repository.LinkRepository
	workspaceRepo repository.WorkspaceRepository
	generator     CodeGenerator
	cache         *services.LinkCache
	cfg           config.AppConfig
}

func NewLinkFlow(
	linkRepo repository.LinkRepository,
	workspaceRepo repository.WorkspaceRepository,
	generator CodeGenerator,
	cache *services.LinkCache,
	cfg config.AppConfig,
) LinkFlow {
	return &LinkFlowImpl{
		linkRepo:      linkRepo,
		workspaceRepo: workspaceRepo,
		generator:     generator,
		cache:         cache,
		cfg:           cfg,
	}
}

// resolveLinkRef accepts either a link UUID or a code
func resolveLinkRef(ctx context.Context, repo repository.LinkRepository, ref string) (*models.Link, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrLinkNotFound
	}
	if parsed, err := uuid.Parse(ref); err == nil {
		link, err := repo.ByUUID(ctx, parsed)
		if err != nil {
			return nil, NewBusinessError("LINK_LOOKUP_FAILED", "Failed to lookup link", err)
		}
		if link != nil {
			return link, nil
		}
	}
	link, err := repo.ByCode(ctx, ref)
	if err != nil {
		return nil, NewBusinessError("LINK_LOOKUP_FAILED", "Failed to lookup link", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

func (f *LinkFlowImpl) linkLimitFor(plan string) int64 {
	if plan == models.PlanCreator {
		return f.cfg.CreatorLinkLimit
	}
	return f.cfg.FreeLinkLimit
}

func (f *LinkFlowImpl) CreateLink(ctx context.Context, req *dto.CreateLinkRequest) (*dto.LinkDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	target := normalizeTargetURL(req.TargetURL)
	if target == "" {
		return nil, ErrTargetURLRequired
	}

	workspace, err := f.workspaceRepo.ByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, NewBusinessError("WORKSPACE_LOOKUP_FAILED", "Failed to lookup workspace", err)
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	count, err := f.linkRepo.CountByWorkspace(ctx, workspace.ID)
	if err != nil {
		return nil, NewBusinessError("LINK_COUNT_FAILED", "Failed to count workspace links", err)
	}
	if count >= f.linkLimitFor(workspace.Plan) {
		return nil, ErrQuotaExceeded
	}

	var title *string
	if trimmed := strings.TrimSpace(req.Title); trimmed != "" {
		title = utils.ToPtr(trimmed)
	}

	newLink := func(code string) *models.Link {
		now := utils.UTCNow()
		return &models.Link{
			UUID:        uuid.New(),
			WorkspaceID: workspace.ID,
			Code:        code,
			TargetURL:   target,
			Title:       title,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	if custom := strings.TrimSpace(req.Code); custom != "" {
		// Custom codes skip generation but face the same global
		// uniqueness gate; a collision is a user error, not a retry.
		exists, err := f.linkRepo.CodeExists(ctx, custom)
		if err != nil {
			return nil, NewBusinessError("CODE_LOOKUP_FAILED", "Failed to check code existence", err)
		}
		if exists {
			return nil, ErrCodeAlreadyInUse
		}
		link := newLink(custom)
		if err := f.linkRepo.Save(ctx, link); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, ErrCodeAlreadyInUse
			}
			return nil, NewBusinessError("LINK_CREATE_FAILED", "Failed to create link", err)
		}
		return utils.ToPtr(mapLinkDTO(link, f.cfg.PublicBaseURL)), nil
	}

	for attempt := 0; attempt < insertRetries; attempt++ {
		code, err := f.generator.Generate(ctx)
		if err != nil {
			return nil, err
		}
		link := newLink(code)
		err = f.linkRepo.Save(ctx, link)
		if err == nil {
			return utils.ToPtr(mapLinkDTO(link, f.cfg.PublicBaseURL)), nil
		}
		if repository.IsUniqueViolation(err) {
			// Lost the check-then-insert race; draw a fresh candidate.
			continue
		}
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Failed to create link", err)
	}
	return nil, ErrCodeSpaceExhausted
}

func (f *LinkFlowImpl) GetLink(ctx context.Context, ref string) (*dto.LinkDTO, error) {
	link, err := resolveLinkRef(ctx, f.linkRepo, ref)
	if err != nil {
		return nil, err
	}
	return utils.ToPtr(mapLinkDTO(link, f.cfg.PublicBaseURL)), nil
}

func (f *LinkFlowImpl) ListLinks(ctx context.Context, workspaceID uint, limit, offset int) (*dto.ListLinksResponse, error) {
	workspace, err := f.workspaceRepo.ByID(ctx, workspaceID)
	if err != nil {
		return nil, NewBusinessError("WORKSPACE_LOOKUP_FAILED", "Failed to lookup workspace", err)
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := f.linkRepo.ListByWorkspace(ctx, workspace.ID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Failed to list links", err)
	}
	out := make([]dto.LinkDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLinkDTO(row, f.cfg.PublicBaseURL))
	}
	return &dto.ListLinksResponse{WorkspaceID: workspace.ID, Links: out}, nil
}

func (f *LinkFlowImpl) UpdateLink(ctx context.Context, ref string, req *dto.UpdateLinkRequest) (*dto.LinkDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}
	link, err := resolveLinkRef(ctx, f.linkRepo, ref)
	if err != nil {
		return nil, err
	}
	oldCode := link.Code

	if req.TargetURL != nil {
		target := normalizeTargetURL(*req.TargetURL)
		if target == "" {
			return nil, ErrTargetURLRequired
		}
		link.TargetURL = target
	}
	if req.Title != nil {
		if trimmed := strings.TrimSpace(*req.Title); trimmed != "" {
			link.Title = utils.ToPtr(trimmed)
		} else {
			link.Title = nil
		}
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.Code != nil {
		newCode := strings.TrimSpace(*req.Code)
		if newCode != "" && newCode != link.Code {
			exists, err := f.linkRepo.CodeExists(ctx, newCode)
			if err != nil {
				return nil, NewBusinessError("CODE_LOOKUP_FAILED", "Failed to check code existence", err)
			}
			if exists {
				return nil, ErrCodeAlreadyInUse
			}
			link.Code = newCode
		}
	}
	link.UpdatedAt = utils.UTCNow()

	if err := f.linkRepo.Update(ctx, link); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCodeAlreadyInUse
		}
		return nil, NewBusinessError("LINK_UPDATE_FAILED", "Failed to update link", err)
	}

	f.cache.Invalidate(ctx, oldCode, link.Code)
	return utils.ToPtr(mapLinkDTO(link, f.cfg.PublicBaseURL)), nil
}

func (f *LinkFlowImpl) DeleteLink(ctx context.Context, ref string) error {
	link, err := resolveLinkRef(ctx, f.linkRepo, ref)
	if err != nil {
		return err
	}
	if err := f.linkRepo.DeleteWithEvents(ctx, link.ID); err != nil {
		return NewBusinessError("LINK_DELETE_FAILED", "Failed to delete link", err)
	}
	f.cache.Invalidate(ctx, link.Code)
	return nil
}
