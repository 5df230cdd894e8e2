package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/blachmet/cennik/app/dto"
	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/blachmet/cennik/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// BulkPriceHandlerInterface defines the contract for bulk price handlers
type BulkPriceHandlerInterface interface {
	Preview(c fiber.Ctx) error
	Apply(c fiber.Ctx) error
	FilterOptions(c fiber.Ctx) error
	History(c fiber.Ctx) error
}

// BulkPriceHandler handles bulk price mutation HTTP requests
type BulkPriceHandler struct {
	bulkPricingFlow businessflow.BulkPricingFlow
	validator       *validator.Validate
}

// NewBulkPriceHandler creates a new bulk price handler
func NewBulkPriceHandler(bulkPricingFlow businessflow.BulkPricingFlow) BulkPriceHandlerInterface {
	return &BulkPriceHandler{
		bulkPricingFlow: bulkPricingFlow,
		validator:       validator.New(),
	}
}

func (h *BulkPriceHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *BulkPriceHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Preview computes the effect of a bulk change without writing it
// @Summary Preview Bulk Price Change
// @Description Compute totals and paged per-row deltas for a filtered price mutation without persisting anything
// @Tags Bulk Prices
// @Accept json
// @Produce json
// @Param request body dto.BulkChangeRequest true "Change and filters"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Rows per page" default(50)
// @Success 200 {object} dto.APIResponse{data=dto.BulkPreviewResponse} "Preview computed"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid change"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/prices/bulk/preview [post]
func (h *BulkPriceHandler) Preview(c fiber.Ctx) error {
	var req dto.BulkChangeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)

	result, err := h.bulkPricingFlow.Preview(h.createRequestContext(c, "/api/v1/prices/bulk/preview"), &req, page, perPage)
	if err != nil {
		if businessflow.IsInvalidChangeType(err) || businessflow.IsInvalidChangeValue(err) || businessflow.IsInvalidRounding(err) || businessflow.IsInvalidFilter(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid bulk change", "INVALID_BULK_CHANGE", err.Error())
		}

		log.Println("Bulk price preview failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk price preview failed", "BULK_PREVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Preview computed", result)
}

// Apply persists a bulk change and records an audit entry
// @Summary Apply Bulk Price Change
// @Description Apply a filtered price mutation in one transaction and record an audit entry
// @Tags Bulk Prices
// @Accept json
// @Produce json
// @Param request body dto.BulkChangeRequest true "Change and filters"
// @Success 200 {object} dto.APIResponse{data=dto.BulkApplyResponse} "Change applied"
// @Failure 400 {object} dto.APIResponse "Validation error, invalid change or empty selection"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/prices/bulk/apply [post]
func (h *BulkPriceHandler) Apply(c fiber.Ctx) error {
	var req dto.BulkChangeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.bulkPricingFlow.Apply(h.createRequestContext(c, "/api/v1/prices/bulk/apply"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidChangeType(err) || businessflow.IsInvalidChangeValue(err) || businessflow.IsInvalidRounding(err) || businessflow.IsInvalidFilter(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid bulk change", "INVALID_BULK_CHANGE", err.Error())
		}
		if businessflow.IsEmptySelection(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No prices match the given filters", "EMPTY_SELECTION", nil)
		}

		log.Println("Bulk price apply failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk price apply failed", "BULK_APPLY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Change applied", result)
}

// FilterOptions returns the facet values still available under the current selection
// @Summary Bulk Filter Options
// @Description List categories, groups, grades, finishes, widths and the thickness range that still match the current filter selection
// @Tags Bulk Prices
// @Produce json
// @Param categories query string false "Comma-separated categories"
// @Param group_ids query string false "Comma-separated group IDs"
// @Param grades query string false "Comma-separated grades"
// @Param surface_finishes query string false "Comma-separated finishes"
// @Param thickness_min query number false "Minimum thickness (mm)"
// @Param thickness_max query number false "Maximum thickness (mm)"
// @Param widths query string false "Comma-separated widths (mm)"
// @Success 200 {object} dto.APIResponse{data=dto.BulkFilterOptionsResponse} "Options retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/prices/bulk/filter-options [get]
func (h *BulkPriceHandler) FilterOptions(c fiber.Ctx) error {
	filters := dto.BulkPriceFilters{
		Categories:      queryCSV(c, "categories"),
		Grades:          queryCSV(c, "grades"),
		SurfaceFinishes: queryCSV(c, "surface_finishes"),
	}

	for _, raw := range queryCSV(c, "group_ids") {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "group_ids must be integers", "INVALID_QUERY", nil)
		}
		filters.GroupIDs = append(filters.GroupIDs, uint(id))
	}
	for _, raw := range queryCSV(c, "widths") {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "widths must be numbers", "INVALID_QUERY", nil)
		}
		filters.Widths = append(filters.Widths, w)
	}

	var ok bool
	if filters.ThicknessMin, ok = queryFloat(c, "thickness_min"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness_min must be a number", "INVALID_QUERY", nil)
	}
	if filters.ThicknessMax, ok = queryFloat(c, "thickness_max"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness_max must be a number", "INVALID_QUERY", nil)
	}

	result, err := h.bulkPricingFlow.FilterOptions(h.createRequestContext(c, "/api/v1/prices/bulk/filter-options"), &filters)
	if err != nil {
		log.Println("Bulk filter options failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk filter options failed", "FILTER_OPTIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Options retrieved", result)
}

// History lists past bulk mutations, newest first
// @Summary Bulk Change History
// @Description List recorded bulk price mutations with pagination
// @Tags Bulk Prices
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Param change_type query string false "Filter by change type"
// @Success 200 {object} dto.APIResponse{data=dto.PriceAuditHistoryResponse} "History retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/prices/bulk/history [get]
func (h *BulkPriceHandler) History(c fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	result, err := h.bulkPricingFlow.AuditHistory(h.createRequestContext(c, "/api/v1/prices/bulk/history"), limit, offset, queryStringPtr(c, "change_type"))
	if err != nil {
		log.Println("Bulk audit history failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk audit history failed", "BULK_HISTORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "History retrieved", result)
}

func (h *BulkPriceHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *BulkPriceHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
