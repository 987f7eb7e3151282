package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/kompihq/kompi-links/app/dto"
	businessflow "github.com/kompihq/kompi-links/business_flow"
)

// LinkHandlerInterface defines the contract for link management handlers
type LinkHandlerInterface interface {
	CreateLink(c fiber.Ctx) error
	GetLink(c fiber.Ctx) error
	ListLinks(c fiber.Ctx) error
	UpdateLink(c fiber.Ctx) error
	DeleteLink(c fiber.Ctx) error
}

// LinkHandler handles link management HTTP requests
type LinkHandler struct {
	linkFlow  businessflow.LinkFlow
	validator *validator.Validate
}

func NewLinkHandler(linkFlow businessflow.LinkFlow) *LinkHandler {
	return &LinkHandler{
		linkFlow:  linkFlow,
		validator: validator.New(),
	}
}

func (h *LinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateLink handles short link creation
func (h *LinkHandler) CreateLink(c fiber.Ctx) error {
	var req dto.CreateLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.linkFlow.CreateLink(createRequestContext(c, "/api/v1/links"), &req)
	if err != nil {
		if businessflow.IsWorkspaceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Workspace not found", "WORKSPACE_NOT_FOUND", nil)
		}
		if businessflow.IsTargetURLRequired(err) || businessflow.IsInvalidTargetURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Target URL is invalid", "INVALID_TARGET_URL", nil)
		}
		if businessflow.IsQuotaExceeded(err) {
			return h.ErrorResponse(c, fiber.StatusPaymentRequired, "Link quota exceeded for current plan", "QUOTA_EXCEEDED", nil)
		}
		if businessflow.IsCodeAlreadyInUse(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Code is already in use", "CODE_ALREADY_IN_USE", nil)
		}
		if businessflow.IsCodeSpaceExhausted(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Could not allocate a unique code", "CODE_SPACE_EXHAUSTED", nil)
		}

		log.Println("Link creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link creation failed", "LINK_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Link created successfully", result)
}

// GetLink returns a single link by UUID or code
func (h *LinkHandler) GetLink(c fiber.Ctx) error {
	ref := c.Params("id")
	if ref == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Link ID is required", "MISSING_LINK_ID", nil)
	}

	result, err := h.linkFlow.GetLink(createRequestContext(c, "/api/v1/links/"+ref), ref)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", "LINK_NOT_FOUND", nil)
		}
		log.Println("Link lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link lookup failed", "LINK_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link retrieved successfully", result)
}

// ListLinks returns the links of a workspace, newest first
func (h *LinkHandler) ListLinks(c fiber.Ctx) error {
	workspaceID, err := strconv.ParseUint(c.Query("workspace_id"), 10, 32)
	if err != nil || workspaceID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "workspace_id is required", "MISSING_WORKSPACE_ID", nil)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	result, err := h.linkFlow.ListLinks(createRequestContext(c, "/api/v1/links"), uint(workspaceID), limit, offset)
	if err != nil {
		if businessflow.IsWorkspaceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Workspace not found", "WORKSPACE_NOT_FOUND", nil)
		}
		log.Println("Link listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link listing failed", "LINK_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Links retrieved successfully", result)
}

// UpdateLink applies a partial update to a link
func (h *LinkHandler) UpdateLink(c fiber.Ctx) error {
	ref := c.Params("id")
	if ref == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Link ID is required", "MISSING_LINK_ID", nil)
	}

	var req dto.UpdateLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.linkFlow.UpdateLink(createRequestContext(c, "/api/v1/links/"+ref), ref, &req)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", "LINK_NOT_FOUND", nil)
		}
		if businessflow.IsTargetURLRequired(err) || businessflow.IsInvalidTargetURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Target URL is invalid", "INVALID_TARGET_URL", nil)
		}
		if businessflow.IsCodeAlreadyInUse(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Code is already in use", "CODE_ALREADY_IN_USE", nil)
		}
		log.Println("Link update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link update failed", "LINK_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link updated successfully", result)
}

// DeleteLink removes a link and its click events
func (h *LinkHandler) DeleteLink(c fiber.Ctx) error {
	ref := c.Params("id")
	if ref == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Link ID is required", "MISSING_LINK_ID", nil)
	}

	if err := h.linkFlow.DeleteLink(createRequestContext(c, "/api/v1/links/"+ref), ref); err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", "LINK_NOT_FOUND", nil)
		}
		log.Println("Link deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link deletion failed", "LINK_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link deleted successfully", nil)
}
