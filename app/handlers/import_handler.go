package handlers

import (
	"context"
	"log"
	"mime/multipart"
	"time"

	"github.com/blachmet/cennik/app/dto"
	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/blachmet/cennik/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ImportHandlerInterface defines the contract for spreadsheet import handlers
type ImportHandlerInterface interface {
	Analyze(c fiber.Ctx) error
	Preview(c fiber.Ctx) error
	Apply(c fiber.Ctx) error
	Cancel(c fiber.Ctx) error
	History(c fiber.Ctx) error
}

// ImportHandler handles spreadsheet import HTTP requests
type ImportHandler struct {
	importFlow businessflow.ImportFlow
	validator  *validator.Validate
}

// NewImportHandler creates a new import handler
func NewImportHandler(importFlow businessflow.ImportFlow) ImportHandlerInterface {
	return &ImportHandler{
		importFlow: importFlow,
		validator:  validator.New(),
	}
}

func (h *ImportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ImportHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Analyze parses a workbook and stages its changes for review
// @Summary Analyze Price Workbook
// @Description Parse an uploaded xlsx/csv workbook (or a server-side path), diff it against current prices and stage the changes under an import ID; nothing is written yet
// @Tags Imports
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Workbook file (xlsx or csv)"
// @Param request body dto.AnalyzeImportRequest false "Server-side workbook path (when no file is uploaded)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportPreviewResponse} "Workbook analyzed"
// @Failure 400 {object} dto.APIResponse "Unsupported or unreadable workbook"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/imports/analyze [post]
func (h *ImportHandler) Analyze(c fiber.Ctx) error {
	ctx := h.createRequestContextWithTimeout(c, "/api/v1/imports/analyze", utils.ImportRequestTimeout)

	var result *dto.ImportPreviewResponse
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		fh, err := openImportFile(fileHeader)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
		}
		defer fh.Close()

		result, err = h.importFlow.AnalyzeReader(ctx, fh, fileHeader.Filename)
		if err != nil {
			return h.analyzeError(c, err)
		}
	} else {
		var req dto.AnalyzeImportRequest
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "file upload or path is required", "INVALID_REQUEST", err.Error())
		}
		if err := h.validator.Struct(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
		}

		var flowErr error
		result, flowErr = h.importFlow.AnalyzeWorkbook(ctx, req.Path)
		if flowErr != nil {
			return h.analyzeError(c, flowErr)
		}
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Workbook analyzed", result)
}

func (h *ImportHandler) analyzeError(c fiber.Ctx, err error) error {
	if businessflow.IsUnsupportedFileType(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported file type", "UNSUPPORTED_FILE_TYPE", err.Error())
	}
	if businessflow.IsWorkbookUnreadable(err) || businessflow.IsWorkbookEmpty(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Workbook could not be read", "WORKBOOK_UNREADABLE", err.Error())
	}

	log.Println("Import analysis failed:", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, "Import analysis failed", "IMPORT_ANALYZE_FAILED", nil)
}

// Preview pages through the staged changes of an analyzed import
// @Summary Preview Staged Import
// @Description Page through the staged changes of a previously analyzed import, optionally filtered by change type or data type
// @Tags Imports
// @Produce json
// @Param id path string true "Import ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Rows per page" default(50)
// @Param change_type query string false "Filter: add, update, remove, error or unchanged"
// @Param data_type query string false "Filter: base_prices, grinding or film"
// @Success 200 {object} dto.APIResponse{data=dto.ImportPreviewResponse} "Preview retrieved"
// @Failure 404 {object} dto.APIResponse "Import not found or expired"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/imports/{id}/preview [get]
func (h *ImportHandler) Preview(c fiber.Ctx) error {
	importID := c.Params("id")
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)

	result, err := h.importFlow.PreviewImport(h.createRequestContext(c, "/api/v1/imports/:id/preview"), importID, page, perPage, queryStringPtr(c, "change_type"), queryStringPtr(c, "data_type"))
	if err != nil {
		if businessflow.IsImportNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Import not found or expired", "IMPORT_NOT_FOUND", nil)
		}

		log.Println("Import preview failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Import preview failed", "IMPORT_PREVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Preview retrieved", result)
}

// Apply commits the staged changes of an analyzed import
// @Summary Apply Staged Import
// @Description Commit the staged changes of an analyzed import in one transaction; requires confirm=true
// @Tags Imports
// @Accept json
// @Produce json
// @Param id path string true "Import ID"
// @Param request body dto.ImportApplyRequest true "Merge mode and confirmation"
// @Success 200 {object} dto.APIResponse{data=dto.ImportApplyResponse} "Import applied"
// @Failure 400 {object} dto.APIResponse "Validation error, invalid mode or missing confirmation"
// @Failure 404 {object} dto.APIResponse "Import not found or expired"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/imports/{id}/apply [post]
func (h *ImportHandler) Apply(c fiber.Ctx) error {
	var req dto.ImportApplyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.importFlow.ApplyImport(h.createRequestContextWithTimeout(c, "/api/v1/imports/:id/apply", utils.ImportRequestTimeout), c.Params("id"), req.Mode, req.Confirm, clientMetadata(c))
	if err != nil {
		if businessflow.IsImportNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Import not found or expired", "IMPORT_NOT_FOUND", nil)
		}
		if businessflow.IsImportNotConfirmed(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Import must be confirmed before applying", "IMPORT_NOT_CONFIRMED", nil)
		}
		if businessflow.IsInvalidMergeMode(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid merge mode", "INVALID_MERGE_MODE", err.Error())
		}

		log.Println("Import apply failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Import apply failed", "IMPORT_APPLY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Import applied", result)
}

// Cancel discards a staged import without applying it
// @Summary Cancel Staged Import
// @Description Discard the staged changes of an analyzed import
// @Tags Imports
// @Produce json
// @Param id path string true "Import ID"
// @Success 200 {object} dto.APIResponse "Import cancelled"
// @Failure 404 {object} dto.APIResponse "Import not found or expired"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/imports/{id} [delete]
func (h *ImportHandler) Cancel(c fiber.Ctx) error {
	if err := h.importFlow.CancelImport(h.createRequestContext(c, "/api/v1/imports/:id"), c.Params("id")); err != nil {
		if businessflow.IsImportNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Import not found or expired", "IMPORT_NOT_FOUND", nil)
		}

		log.Println("Import cancel failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Import cancel failed", "IMPORT_CANCEL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Import cancelled", nil)
}

// History lists past imports and exports, newest first
// @Summary Import/Export History
// @Description List recorded import and export operations with pagination
// @Tags Imports
// @Produce json
// @Param operation_type query string false "Filter: import or export"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.APIResponse{data=dto.ImportExportHistoryResponse} "History retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/imports/history [get]
func (h *ImportHandler) History(c fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	result, err := h.importFlow.History(h.createRequestContext(c, "/api/v1/imports/history"), queryStringPtr(c, "operation_type"), limit, offset)
	if err != nil {
		log.Println("Import history failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Import history failed", "IMPORT_HISTORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "History retrieved", result)
}

func openImportFile(fh *multipart.FileHeader) (multipart.File, error) {
	return fh.Open()
}

func (h *ImportHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *ImportHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
