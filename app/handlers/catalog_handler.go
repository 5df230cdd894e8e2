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

// CatalogHandlerInterface defines the contract for material catalog handlers
type CatalogHandlerInterface interface {
	ListMaterials(c fiber.Ctx) error
	CreateMaterial(c fiber.Ctx) error
	SeedMaterials(c fiber.Ctx) error
	ListMaterialGroups(c fiber.Ctx) error
	ListProcessingOptions(c fiber.Ctx) error
}

// CatalogHandler handles material catalog HTTP requests
type CatalogHandler struct {
	catalogFlow businessflow.CatalogFlow
	validator   *validator.Validate
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogFlow businessflow.CatalogFlow) CatalogHandlerInterface {
	return &CatalogHandler{
		catalogFlow: catalogFlow,
		validator:   validator.New(),
	}
}

func (h *CatalogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CatalogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListMaterials lists catalog materials
// @Summary List Materials
// @Description List catalog materials, optionally filtered by category or group
// @Tags Catalog
// @Produce json
// @Param category query string false "Material category"
// @Param group_id query int false "Material group ID"
// @Param include_inactive query boolean false "Include inactive materials" default(false)
// @Success 200 {object} dto.APIResponse{data=dto.ListMaterialsResponse} "Materials retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/materials [get]
func (h *CatalogHandler) ListMaterials(c fiber.Ctx) error {
	groupID, ok := queryUint(c, "group_id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "group_id must be an integer", "INVALID_QUERY", nil)
	}

	result, err := h.catalogFlow.ListMaterials(h.createRequestContext(c, "/api/v1/materials"), queryStringPtr(c, "category"), groupID, queryBool(c, "include_inactive", false))
	if err != nil {
		log.Println("Material listing failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Material listing failed", "MATERIALS_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Materials retrieved", result)
}

// CreateMaterial adds a material to the catalog
// @Summary Create Material
// @Description Add a material to the catalog; density defaults from the standard grade table when omitted
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateMaterialRequest true "Material"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialDTO} "Material created"
// @Failure 400 {object} dto.APIResponse "Validation error, duplicate name or unknown group"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/materials [post]
func (h *CatalogHandler) CreateMaterial(c fiber.Ctx) error {
	var req dto.CreateMaterialRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.catalogFlow.CreateMaterial(h.createRequestContext(c, "/api/v1/materials"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsMaterialAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Material with this name already exists", "MATERIAL_EXISTS", nil)
		}
		if businessflow.IsMaterialGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Material group not found", "MATERIAL_GROUP_NOT_FOUND", nil)
		}

		log.Println("Material creation failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Material creation failed", "MATERIAL_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Material created", result)
}

// SeedMaterials fills the catalog with the standard grade set
// @Summary Seed Materials
// @Description Create any standard grades missing from the catalog; existing grades are left untouched
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SeedMaterialsResponse} "Catalog seeded"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/materials/seed [post]
func (h *CatalogHandler) SeedMaterials(c fiber.Ctx) error {
	result, err := h.catalogFlow.SeedMaterials(h.createRequestContext(c, "/api/v1/materials/seed"), clientMetadata(c))
	if err != nil {
		log.Println("Material seeding failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Material seeding failed", "MATERIAL_SEED_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Catalog seeded", result)
}

// ListMaterialGroups lists material groups with their material counts
// @Summary List Material Groups
// @Description List material groups with active material counts, optionally filtered by category
// @Tags Catalog
// @Produce json
// @Param category query string false "Material category"
// @Param include_inactive query boolean false "Include inactive groups" default(false)
// @Success 200 {object} dto.APIResponse{data=dto.ListMaterialGroupsResponse} "Groups retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/material-groups [get]
func (h *CatalogHandler) ListMaterialGroups(c fiber.Ctx) error {
	result, err := h.catalogFlow.ListMaterialGroups(h.createRequestContext(c, "/api/v1/material-groups"), queryStringPtr(c, "category"), queryBool(c, "include_inactive", false))
	if err != nil {
		log.Println("Material group listing failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Material group listing failed", "MATERIAL_GROUPS_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Groups retrieved", result)
}

// ListProcessingOptions lists processing compatibility rules per finish
// @Summary List Processing Options
// @Description List per-finish processing compatibility rules (grinding and film allowances)
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListProcessingOptionsResponse} "Options retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/processing-options [get]
func (h *CatalogHandler) ListProcessingOptions(c fiber.Ctx) error {
	result, err := h.catalogFlow.ListProcessingOptions(h.createRequestContext(c, "/api/v1/processing-options"))
	if err != nil {
		log.Println("Processing option listing failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Processing option listing failed", "PROCESSING_OPTIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Options retrieved", result)
}

func (h *CatalogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *CatalogHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
