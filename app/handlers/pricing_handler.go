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

// PricingHandlerInterface defines the contract for pricing handlers
type PricingHandlerInterface interface {
	CalculatePrice(c fiber.Ctx) error
	PriceTable(c fiber.Ctx) error
	AvailableOptions(c fiber.Ctx) error
	GetExchangeRate(c fiber.Ctx) error
	UpdateExchangeRate(c fiber.Ctx) error
}

// PricingHandler handles price calculation HTTP requests
type PricingHandler struct {
	pricingFlow businessflow.PricingFlow
	validator   *validator.Validate
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingFlow businessflow.PricingFlow) PricingHandlerInterface {
	return &PricingHandler{
		pricingFlow: pricingFlow,
		validator:   validator.New(),
	}
}

func (h *PricingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PricingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CalculatePrice computes the full per-kilogram price breakdown for one sheet variant
// @Summary Calculate Price
// @Description Calculate the PLN/EUR per-kilogram price breakdown for a sheet variant with optional film and grinding
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CalculatePriceRequest true "Variant and processing selection"
// @Success 200 {object} dto.APIResponse{data=dto.PriceBreakdownResponse} "Price calculated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid configuration"
// @Failure 404 {object} dto.APIResponse "Material or base price not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/calculate [post]
func (h *PricingHandler) CalculatePrice(c fiber.Ctx) error {
	var req dto.CalculatePriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.pricingFlow.Calculate(h.createRequestContext(c, "/api/v1/pricing/calculate"), &req)
	if err != nil {
		if businessflow.IsMaterialNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Material not found", "MATERIAL_NOT_FOUND", nil)
		}
		if businessflow.IsBasePriceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No price for this variant", "BASE_PRICE_NOT_FOUND", nil)
		}
		if businessflow.IsVariantDisabled(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Variant is disabled", "VARIANT_DISABLED", nil)
		}
		if businessflow.IsUnknownProvider(err) || businessflow.IsUnknownFilmType(err) || businessflow.IsUnknownGrit(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown processing selection", "UNKNOWN_PROCESSING", nil)
		}
		if businessflow.IsThicknessOutOfRange(err) || businessflow.IsWidthOutOfRange(err) || businessflow.IsLengthOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Dimensions out of range", "DIMENSIONS_INVALID", nil)
		}

		log.Println("Price calculation failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Price calculation failed", "PRICE_CALCULATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price calculated successfully", result)
}

// PriceTable lists priced variants with PLN and EUR per-kilogram prices
// @Summary Price Table
// @Description List sheet variants with their current prices, filterable by category, grade, finish, thickness and width
// @Tags Pricing
// @Produce json
// @Param category query string false "Material category"
// @Param grade query string false "Material grade"
// @Param surface_finish query string false "Surface finish"
// @Param thickness_min query number false "Minimum thickness (mm)"
// @Param thickness_max query number false "Maximum thickness (mm)"
// @Param width query number false "Exact width (mm)"
// @Success 200 {object} dto.APIResponse{data=dto.PriceTableResponse} "Price table retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/table [get]
func (h *PricingHandler) PriceTable(c fiber.Ctx) error {
	req := dto.PriceTableRequest{
		Category:      c.Query("category"),
		Grade:         c.Query("grade"),
		SurfaceFinish: c.Query("surface_finish"),
	}

	var ok bool
	if req.ThicknessMin, ok = queryFloat(c, "thickness_min"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness_min must be a number", "INVALID_QUERY", nil)
	}
	if req.ThicknessMax, ok = queryFloat(c, "thickness_max"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness_max must be a number", "INVALID_QUERY", nil)
	}
	if req.Width, ok = queryFloat(c, "width"); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "width must be a number", "INVALID_QUERY", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.pricingFlow.PriceTable(h.createRequestContext(c, "/api/v1/pricing/table"), &req)
	if err != nil {
		log.Println("Price table listing failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Price table listing failed", "PRICE_TABLE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price table retrieved", result)
}

// AvailableOptions lists film and grinding choices for one configuration
// @Summary Available Processing Options
// @Description List the film and grinding options available for a material/finish/thickness/width configuration
// @Tags Pricing
// @Produce json
// @Param material_id query integer true "Material ID"
// @Param surface_finish query string true "Surface finish"
// @Param thickness query number true "Thickness (mm)"
// @Param width query number true "Width (mm)"
// @Success 200 {object} dto.APIResponse{data=dto.AvailableOptionsResponse} "Options retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 404 {object} dto.APIResponse "Material not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/options [get]
func (h *PricingHandler) AvailableOptions(c fiber.Ctx) error {
	materialID, ok := queryUint(c, "material_id")
	if !ok || materialID == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "material_id is required", "INVALID_QUERY", nil)
	}
	thickness, ok := queryFloat(c, "thickness")
	if !ok || thickness == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness is required", "INVALID_QUERY", nil)
	}
	width, ok := queryFloat(c, "width")
	if !ok || width == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "width is required", "INVALID_QUERY", nil)
	}

	req := dto.AvailableOptionsRequest{
		MaterialID:    *materialID,
		SurfaceFinish: c.Query("surface_finish"),
		Thickness:     *thickness,
		Width:         *width,
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.pricingFlow.AvailableOptions(h.createRequestContext(c, "/api/v1/pricing/options"), &req)
	if err != nil {
		if businessflow.IsMaterialNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Material not found", "MATERIAL_NOT_FOUND", nil)
		}

		log.Println("Available options listing failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Available options listing failed", "AVAILABLE_OPTIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Options retrieved", result)
}

// GetExchangeRate reports the EUR/PLN rate pricing currently converts with
// @Summary Current Exchange Rate
// @Description Get the active EUR/PLN exchange rate (or the built-in default when none is set)
// @Tags Pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ExchangeRateResponse} "Exchange rate retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/exchange-rate [get]
func (h *PricingHandler) GetExchangeRate(c fiber.Ctx) error {
	result, err := h.pricingFlow.CurrentExchangeRate(h.createRequestContext(c, "/api/v1/pricing/exchange-rate"))
	if err != nil {
		log.Println("Exchange rate lookup failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Exchange rate lookup failed", "EXCHANGE_RATE_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Exchange rate retrieved", result)
}

// UpdateExchangeRate replaces the active EUR/PLN rate
// @Summary Update Exchange Rate
// @Description Set a new EUR/PLN exchange rate; subsequent calculations convert with it
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.UpdateExchangeRateRequest true "New rate"
// @Success 200 {object} dto.APIResponse{data=dto.ExchangeRateResponse} "Exchange rate updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/pricing/exchange-rate [put]
func (h *PricingHandler) UpdateExchangeRate(c fiber.Ctx) error {
	var req dto.UpdateExchangeRateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.pricingFlow.UpdateExchangeRate(h.createRequestContext(c, "/api/v1/pricing/exchange-rate"), &req)
	if err != nil {
		log.Println("Exchange rate update failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Exchange rate update failed", "EXCHANGE_RATE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Exchange rate updated", result)
}

func (h *PricingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *PricingHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
