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

// AvailabilityHandlerInterface defines the contract for availability handlers
type AvailabilityHandlerInterface interface {
	CheckGrinding(c fiber.Ctx) error
	GrindingOptions(c fiber.Ctx) error
	GrindingMatrix(c fiber.Ctx) error
	UpsertGrindingPrice(c fiber.Ctx) error
	BulkUpdateMatrix(c fiber.Ctx) error
	CheckFilm(c fiber.Ctx) error
	FilmMatrix(c fiber.Ctx) error
}

// AvailabilityHandler handles processing availability HTTP requests
type AvailabilityHandler struct {
	availabilityFlow businessflow.AvailabilityFlow
	validator        *validator.Validate
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availabilityFlow businessflow.AvailabilityFlow) AvailabilityHandlerInterface {
	return &AvailabilityHandler{
		availabilityFlow: availabilityFlow,
		validator:        validator.New(),
	}
}

func (h *AvailabilityHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AvailabilityHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CheckGrinding reports whether one grinding configuration is available
// @Summary Check Grinding Availability
// @Description Check whether a provider offers grinding for a thickness/width/grit combination; a zero price means blocked
// @Tags Availability
// @Produce json
// @Param provider query string true "Grinding provider"
// @Param thickness query number true "Thickness (mm)"
// @Param width query number true "Width (mm)"
// @Param grit query string false "Grit designation"
// @Param with_sb query boolean false "Require the SB variant"
// @Success 200 {object} dto.APIResponse{data=dto.AvailabilityResponse} "Availability checked"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/grinding [get]
func (h *AvailabilityHandler) CheckGrinding(c fiber.Ctx) error {
	thickness, ok := queryFloat(c, "thickness")
	if !ok || thickness == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness is required", "INVALID_QUERY", nil)
	}
	width, ok := queryFloat(c, "width")
	if !ok || width == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "width is required", "INVALID_QUERY", nil)
	}

	req := dto.GrindingCheckRequest{
		Provider:  c.Query("provider"),
		Thickness: *thickness,
		Width:     *width,
		Grit:      c.Query("grit"),
		WithSB:    queryBool(c, "with_sb", false),
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.availabilityFlow.CheckGrinding(h.createRequestContext(c, "/api/v1/availability/grinding"), &req)
	if err != nil {
		if businessflow.IsUnknownProvider(err) || businessflow.IsUnknownGrit(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown grinding selection", "UNKNOWN_GRINDING", nil)
		}

		log.Println("Grinding availability check failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Grinding availability check failed", "GRINDING_CHECK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Availability checked", result)
}

// GrindingOptions lists each provider's offers for a thickness/width pair
// @Summary List Grinding Options
// @Description List every provider's available grinding cells for a thickness/width pair, optionally narrowed to one grit
// @Tags Availability
// @Produce json
// @Param thickness query number true "Thickness (mm)"
// @Param width query number true "Width (mm)"
// @Param grit query string false "Grit designation"
// @Success 200 {object} dto.APIResponse{data=dto.GrindingOptionsResponse} "Options retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/grinding/options [get]
func (h *AvailabilityHandler) GrindingOptions(c fiber.Ctx) error {
	thickness, ok := queryFloat(c, "thickness")
	if !ok || thickness == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness is required", "INVALID_QUERY", nil)
	}
	width, ok := queryFloat(c, "width")
	if !ok || width == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "width is required", "INVALID_QUERY", nil)
	}

	result, err := h.availabilityFlow.ListGrindingOptions(h.createRequestContext(c, "/api/v1/availability/grinding/options"), *thickness, *width, c.Query("grit"))
	if err != nil {
		log.Println("Grinding options listing failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Grinding options listing failed", "GRINDING_OPTIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Options retrieved", result)
}

// GrindingMatrix returns one provider's full matrix, blocked cells included
// @Summary Grinding Matrix
// @Description Get a provider's thickness x grit price matrix with blocked flags
// @Tags Availability
// @Produce json
// @Param provider query string true "Grinding provider"
// @Param width_variant query string false "Width variant (BORYS)"
// @Success 200 {object} dto.APIResponse{data=dto.GrindingMatrixResponse} "Matrix retrieved"
// @Failure 400 {object} dto.APIResponse "Unknown provider"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/grinding/matrix [get]
func (h *AvailabilityHandler) GrindingMatrix(c fiber.Ctx) error {
	provider := c.Query("provider")
	if provider == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "provider is required", "INVALID_QUERY", nil)
	}

	result, err := h.availabilityFlow.GrindingMatrix(h.createRequestContext(c, "/api/v1/availability/grinding/matrix"), provider, queryStringPtr(c, "width_variant"))
	if err != nil {
		if businessflow.IsUnknownProvider(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown grinding provider", "UNKNOWN_PROVIDER", nil)
		}

		log.Println("Grinding matrix retrieval failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Grinding matrix retrieval failed", "GRINDING_MATRIX_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Matrix retrieved", result)
}

// UpsertGrindingPrice creates or updates one matrix cell
// @Summary Upsert Grinding Price
// @Description Create or update one grinding matrix cell; price 0 blocks the combination
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.UpsertGrindingPriceRequest true "Matrix cell"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertGrindingPriceResponse} "Cell updated"
// @Failure 400 {object} dto.APIResponse "Validation error or unknown provider"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/grinding/matrix [put]
func (h *AvailabilityHandler) UpsertGrindingPrice(c fiber.Ctx) error {
	var req dto.UpsertGrindingPriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.availabilityFlow.UpsertGrindingPrice(h.createRequestContext(c, "/api/v1/availability/grinding/matrix"), &req)
	if err != nil {
		if businessflow.IsUnknownProvider(err) || businessflow.IsUnknownGrit(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown grinding selection", "UNKNOWN_GRINDING", nil)
		}

		log.Println("Grinding price upsert failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Grinding price upsert failed", "GRINDING_UPSERT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Cell updated", result)
}

// BulkUpdateMatrix writes many matrix cells of one provider at once
// @Summary Bulk Update Grinding Matrix
// @Description Upsert a batch of grinding matrix cells for one provider in a single transaction
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.GrindingBulkUpdateRequest true "Provider and cells"
// @Success 200 {object} dto.APIResponse{data=dto.GrindingBulkUpdateResponse} "Matrix updated"
// @Failure 400 {object} dto.APIResponse "Validation error or unknown provider"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/grinding/matrix/bulk [post]
func (h *AvailabilityHandler) BulkUpdateMatrix(c fiber.Ctx) error {
	var req dto.GrindingBulkUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.availabilityFlow.BulkUpdateMatrix(h.createRequestContext(c, "/api/v1/availability/grinding/matrix/bulk"), &req)
	if err != nil {
		if businessflow.IsUnknownProvider(err) || businessflow.IsUnknownGrit(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown grinding selection", "UNKNOWN_GRINDING", nil)
		}

		log.Println("Grinding matrix bulk update failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Grinding matrix bulk update failed", "GRINDING_BULK_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Matrix updated", result)
}

// CheckFilm reports whether one film configuration is available
// @Summary Check Film Availability
// @Description Check whether a film type is offered at a thickness; a zero price means blocked
// @Tags Availability
// @Produce json
// @Param film_type query string true "Film type"
// @Param thickness query number true "Thickness (mm)"
// @Success 200 {object} dto.APIResponse{data=dto.AvailabilityResponse} "Availability checked"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/film [get]
func (h *AvailabilityHandler) CheckFilm(c fiber.Ctx) error {
	thickness, ok := queryFloat(c, "thickness")
	if !ok || thickness == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "thickness is required", "INVALID_QUERY", nil)
	}

	req := dto.FilmCheckRequest{
		FilmType:  c.Query("film_type"),
		Thickness: *thickness,
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.availabilityFlow.CheckFilm(h.createRequestContext(c, "/api/v1/availability/film"), &req)
	if err != nil {
		if businessflow.IsUnknownFilmType(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown film type", "UNKNOWN_FILM_TYPE", nil)
		}

		log.Println("Film availability check failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Film availability check failed", "FILM_CHECK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Availability checked", result)
}

// FilmMatrix returns the full film price matrix, blocked cells included
// @Summary Film Matrix
// @Description Get the thickness x film-type price matrix with blocked flags
// @Tags Availability
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FilmMatrixResponse} "Matrix retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/availability/film/matrix [get]
func (h *AvailabilityHandler) FilmMatrix(c fiber.Ctx) error {
	result, err := h.availabilityFlow.FilmMatrix(h.createRequestContext(c, "/api/v1/availability/film/matrix"))
	if err != nil {
		log.Println("Film matrix retrieval failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Film matrix retrieval failed", "FILM_MATRIX_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Matrix retrieved", result)
}

func (h *AvailabilityHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *AvailabilityHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
