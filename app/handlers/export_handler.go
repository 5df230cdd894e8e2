package handlers

import (
	"context"
	"log"
	"time"

	"github.com/blachmet/cennik/app/dto"
	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/blachmet/cennik/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ExportHandlerInterface defines the contract for price export handlers
type ExportHandlerInterface interface {
	ExportPrices(c fiber.Ctx) error
}

// ExportHandler handles price export HTTP requests
type ExportHandler struct {
	exportFlow businessflow.ExportFlow
	validator  *validator.Validate
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportFlow businessflow.ExportFlow) ExportHandlerInterface {
	return &ExportHandler{
		exportFlow: exportFlow,
		validator:  validator.New(),
	}
}

func (h *ExportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// ExportPrices streams a styled workbook or CSV of the selected price data
// @Summary Export Prices
// @Description Render the selected price data as a styled xlsx workbook (or CSV for base prices) and stream it as a download
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param type query string true "base_prices, grinding, film, modifiers or all"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Param categories query string false "Comma-separated categories"
// @Param surface_finishes query string false "Comma-separated finishes"
// @Param providers query string false "Comma-separated grinding providers"
// @Param film_types query string false "Comma-separated film types"
// @Param thickness_min query number false "Minimum thickness (mm)"
// @Param thickness_max query number false "Maximum thickness (mm)"
// @Param width_min query number false "Minimum width (mm)"
// @Param width_max query number false "Maximum width (mm)"
// @Param only_active query boolean false "Restrict to active rows" default(true)
// @Success 200 {file} file "Rendered workbook"
// @Failure 400 {object} dto.APIResponse "Invalid type, format or filters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/exports/prices [get]
func (h *ExportHandler) ExportPrices(c fiber.Ctx) error {
	req := dto.ExportPricesRequest{
		Type:            c.Query("type"),
		Format:          c.Query("format", "xlsx"),
		Categories:      queryCSV(c, "categories"),
		SurfaceFinishes: queryCSV(c, "surface_finishes"),
		Providers:       queryCSV(c, "providers"),
		FilmTypes:       queryCSV(c, "film_types"),
	}

	var ok bool
	if req.ThicknessMin, ok = queryFloat(c, "thickness_min"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness_min must be a number", "INVALID_QUERY", nil)
	}
	if req.ThicknessMax, ok = queryFloat(c, "thickness_max"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness_max must be a number", "INVALID_QUERY", nil)
	}
	if req.WidthMin, ok = queryFloat(c, "width_min"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "width_min must be a number", "INVALID_QUERY", nil)
	}
	if req.WidthMax, ok = queryFloat(c, "width_max"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "width_max must be a number", "INVALID_QUERY", nil)
	}
	if c.Query("only_active") != "" {
		onlyActive := queryBool(c, "only_active", true)
		req.OnlyActive = &onlyActive
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	file, err := h.exportFlow.ExportPrices(h.createRequestContextWithTimeout(c, "/api/v1/exports/prices", utils.ImportRequestTimeout), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidDataType(err) || businessflow.IsInvalidExportFormat(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid export selection", "INVALID_EXPORT", err.Error())
		}

		log.Println("Price export failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Price export failed", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", file.ContentType)
	c.Set("Content-Disposition", "attachment; filename="+file.Filename)
	return c.Send(file.Content)
}

func (h *ExportHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
