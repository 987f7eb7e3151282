package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/kompihq/kompi-links/app/dto"
	businessflow "github.com/kompihq/kompi-links/business_flow"
	"github.com/kompihq/kompi-links/utils"
)

// AnalyticsHandlerInterface defines the contract for analytics handlers
type AnalyticsHandlerInterface interface {
	LinkAnalytics(c fiber.Ctx) error
	WorkspaceOverview(c fiber.Ctx) error
}

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	analyticsFlow businessflow.AnalyticsFlow
}

func NewAnalyticsHandler(analyticsFlow businessflow.AnalyticsFlow) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsFlow: analyticsFlow}
}

func (h *AnalyticsHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AnalyticsHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// LinkAnalytics returns the per-link analytics view
func (h *AnalyticsHandler) LinkAnalytics(c fiber.Ctx) error {
	ref := c.Params("id")
	if ref == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Link ID is required", "MISSING_LINK_ID", nil)
	}

	result, err := h.analyticsFlow.LinkAnalytics(createRequestContext(c, "/api/v1/links/"+ref+"/analytics"), ref)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", "LINK_NOT_FOUND", nil)
		}
		log.Println("Link analytics failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link analytics failed", "LINK_ANALYTICS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link analytics retrieved successfully", result)
}

// WorkspaceOverview returns the workspace-wide engagement overview.
// Date bounds arrive as from/to query params in YYYY-MM-DD form and are
// interpreted as whole UTC days.
func (h *AnalyticsHandler) WorkspaceOverview(c fiber.Ctx) error {
	workspaceID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || workspaceID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Workspace ID is required", "MISSING_WORKSPACE_ID", nil)
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation(utils.DayKeyLayout, v, time.UTC)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "from must be formatted as YYYY-MM-DD", "INVALID_DATE_RANGE", nil)
		}
		from = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation(utils.DayKeyLayout, v, time.UTC)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "to must be formatted as YYYY-MM-DD", "INVALID_DATE_RANGE", nil)
		}
		to = &parsed
	}

	result, err := h.analyticsFlow.WorkspaceOverview(
		createRequestContext(c, "/api/v1/workspaces/"+c.Params("id")+"/analytics/overview"),
		uint(workspaceID), from, to,
	)
	if err != nil {
		if businessflow.IsWorkspaceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Workspace not found", "WORKSPACE_NOT_FOUND", nil)
		}
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "from must not be after to", "INVALID_DATE_RANGE", nil)
		}
		log.Println("Workspace overview failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Workspace overview failed", "WORKSPACE_OVERVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Workspace overview retrieved successfully", result)
}
