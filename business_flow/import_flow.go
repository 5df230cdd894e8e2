package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/app/services"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Merge modes gate which pending changes an apply executes.
const (
	MergeModeUpdateExisting = "update_existing"
	MergeModeAddNew         = "add_new"
	MergeModeFullSync       = "full_sync"
)

// Pending change targets and actions.
const (
	ImportDataBasePrice = "base_price"
	ImportDataGrinding  = "grinding"
	ImportDataFilm      = "film"

	ImportActionAdd    = "add"
	ImportActionUpdate = "update"
)

// Diff item classifications.
const (
	ChangeItemAdded     = "added"
	ChangeItemUpdated   = "updated"
	ChangeItemUnchanged = "unchanged"
	ChangeItemError     = "error"
)

// diffTolerance is the price delta below which a workbook row counts as
// unchanged. Spreadsheet round-trips drift less than this.
const diffTolerance = 0.001

const importDefaultPageSize = 50

// ImportAnalysis is the outcome of one analyze run: the classified diff, the
// replayable changes, and the summary counters. It is serialized into the
// pending-import cache between the analyze and apply phases.
type ImportAnalysis struct {
	ImportID       string                    `json:"import_id"`
	Filename       string                    `json:"filename"`
	TotalRows      int                       `json:"total_rows"`
	ValidRows      int                       `json:"valid_rows"`
	ErrorRows      int                       `json:"error_rows"`
	Added          int                       `json:"added"`
	Updated        int                       `json:"updated"`
	Removed        int                       `json:"removed"`
	Unchanged      int                       `json:"unchanged"`
	Items          []dto.ImportChangeItemDTO `json:"items"`
	PendingChanges []PendingChange           `json:"pending_changes"`
	Errors         []string                  `json:"errors,omitempty"`
	Warnings       []string                  `json:"warnings,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// PendingChange is one replayable mutation produced by analyze. Updates
// carry the target row ID and the new price; adds carry the full key of the
// row to create. Apply replays these, never the workbook.
type PendingChange struct {
	DataType      string  `json:"data_type"`
	Action        string  `json:"action"`
	ID            uint    `json:"id,omitempty"`
	Price         float64 `json:"price"`
	Grade         string  `json:"grade,omitempty"`
	MaterialID    uint    `json:"material_id,omitempty"`
	SurfaceFinish string  `json:"surface_finish,omitempty"`
	Thickness     float64 `json:"thickness,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Provider      string  `json:"provider,omitempty"`
	Grit          *string `json:"grit,omitempty"`
	WithSB        bool    `json:"with_sb,omitempty"`
	WidthVariant  *string `json:"width_variant,omitempty"`
	FilmType      string  `json:"film_type,omitempty"`
}

// ImportFlow reconciles uploaded price workbooks with the catalog in two
// phases: analyze classifies every row against the current data without
// writing, apply replays the recorded changes under the chosen merge mode.
type ImportFlow interface {
	AnalyzeWorkbook(ctx context.Context, path string) (*dto.ImportPreviewResponse, error)
	AnalyzeReader(ctx context.Context, r io.Reader, filename string) (*dto.ImportPreviewResponse, error)
	PreviewImport(ctx context.Context, importID string, page, perPage int, changeType, dataType *string) (*dto.ImportPreviewResponse, error)
	ApplyImport(ctx context.Context, importID, mode string, confirm bool, metadata *ClientMetadata) (*dto.ImportApplyResponse, error)
	CancelImport(ctx context.Context, importID string) error
	History(ctx context.Context, operationType *string, limit, offset int) (*dto.ImportExportHistoryResponse, error)
}

type ImportFlowImpl struct {
	materialRepo      repository.MaterialRepository
	basePriceRepo     repository.BasePriceRepository
	grindingPriceRepo repository.GrindingPriceRepository
	filmPriceRepo     repository.FilmPriceRepository
	auditRepo         repository.ImportExportAuditRepository
	cache             services.ImportCache
	db                *gorm.DB
}

func NewImportFlow(
	materialRepo repository.MaterialRepository,
	basePriceRepo repository.BasePriceRepository,
	grindingPriceRepo repository.GrindingPriceRepository,
	filmPriceRepo repository.FilmPriceRepository,
	auditRepo repository.ImportExportAuditRepository,
	cache services.ImportCache,
	db *gorm.DB,
) ImportFlow {
	return &ImportFlowImpl{
		materialRepo:      materialRepo,
		basePriceRepo:     basePriceRepo,
		grindingPriceRepo: grindingPriceRepo,
		filmPriceRepo:     filmPriceRepo,
		auditRepo:         auditRepo,
		cache:             cache,
		db:                db,
	}
}

// AnalyzeWorkbook analyzes a workbook already on the server's filesystem.
func (f *ImportFlowImpl) AnalyzeWorkbook(ctx context.Context, path string) (*dto.ImportPreviewResponse, error) {
	if !isSpreadsheetFile(path) {
		return nil, NewBusinessErrorf("IMPORT_FILE_TYPE_INVALID", "Unsupported file type: %s", ErrUnsupportedFileType, filepath.Ext(path))
	}
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewBusinessErrorf("IMPORT_WORKBOOK_UNREADABLE", "Cannot open workbook: %v", ErrWorkbookUnreadable, err)
	}
	defer wb.Close()

	return f.finishAnalyze(ctx, wb, filepath.Base(path))
}

// AnalyzeReader analyzes workbook bytes from a stream, for callers that
// never touch the filesystem.
func (f *ImportFlowImpl) AnalyzeReader(ctx context.Context, r io.Reader, filename string) (*dto.ImportPreviewResponse, error) {
	if !isSpreadsheetFile(filename) {
		return nil, NewBusinessErrorf("IMPORT_FILE_TYPE_INVALID", "Unsupported file type: %s", ErrUnsupportedFileType, filepath.Ext(filename))
	}
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewBusinessErrorf("IMPORT_WORKBOOK_UNREADABLE", "Cannot open workbook: %v", ErrWorkbookUnreadable, err)
	}
	defer wb.Close()

	return f.finishAnalyze(ctx, wb, filename)
}

func (f *ImportFlowImpl) finishAnalyze(ctx context.Context, wb *excelize.File, filename string) (*dto.ImportPreviewResponse, error) {
	analysis, err := f.analyze(ctx, wb, filename)
	if err != nil {
		return nil, NewBusinessError("IMPORT_ANALYZE_FAILED", "Failed to analyze workbook", err)
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, NewBusinessError("IMPORT_ANALYZE_FAILED", "Failed to encode analysis", err)
	}
	if err := f.cache.Put(ctx, analysis.ImportID, payload); err != nil {
		return nil, NewBusinessError("IMPORT_CACHE_FAILED", "Failed to store pending import", err)
	}

	return previewResponse(analysis, 1, importDefaultPageSize, nil, nil), nil
}

// analyze reads every recognized sheet and classifies its rows against the
// catalog. All catalog data is indexed in memory up front; no per-row
// queries happen.
func (f *ImportFlowImpl) analyze(ctx context.Context, wb *excelize.File, filename string) (*ImportAnalysis, error) {
	analysis := &ImportAnalysis{
		ImportID:  uuid.New().String(),
		Filename:  filename,
		CreatedAt: utils.UTCNow(),
	}

	sheetNames := wb.GetSheetList()

	baseSheet := findSheet(sheetNames, baseSheetNames)
	var baseRows [][]string
	if baseSheet == "" && len(sheetNames) > 0 {
		rows, err := wb.GetRows(sheetNames[0])
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && rowContainsToken(rows[0], "gatunek") {
			baseSheet = sheetNames[0]
			baseRows = rows
		}
	}
	if baseSheet != "" {
		if baseRows == nil {
			rows, err := wb.GetRows(baseSheet)
			if err != nil {
				return nil, err
			}
			baseRows = rows
		}
		if err := f.analyzeBaseSheet(ctx, baseRows, analysis); err != nil {
			return nil, err
		}
	} else {
		analysis.Warnings = append(analysis.Warnings, "Nie znaleziono arkusza cen bazowych. Dostepne: "+strings.Join(sheetNames, ", "))
	}

	if grindingSheet := findSheet(sheetNames, grindingSheetNames); grindingSheet != "" {
		rows, err := wb.GetRows(grindingSheet)
		if err != nil {
			return nil, err
		}
		if err := f.analyzeGrindingSheet(ctx, rows, analysis); err != nil {
			return nil, err
		}
	}

	if filmSheet := findSheet(sheetNames, filmSheetNames); filmSheet != "" {
		rows, err := wb.GetRows(filmSheet)
		if err != nil {
			return nil, err
		}
		if err := f.analyzeFilmSheet(ctx, rows, analysis); err != nil {
			return nil, err
		}
	}

	analysis.ValidRows = analysis.Added + analysis.Updated + analysis.Unchanged
	for _, item := range analysis.Items {
		if item.ChangeType == ChangeItemError {
			analysis.ErrorRows++
		}
	}
	analysis.TotalRows = analysis.ValidRows + analysis.ErrorRows

	if analysis.TotalRows == 0 {
		analysis.Warnings = append(analysis.Warnings, "Nie znaleziono danych do importu. Arkusze w pliku: "+strings.Join(sheetNames, ", "))
	}

	return analysis, nil
}

type basePriceKey struct {
	MaterialID uint
	Finish     string
	Thickness  float64
	Width      float64
}

type grindingKey struct {
	Provider     string
	Thickness    float64
	Grit         string
	WithSB       bool
	WidthVariant string
}

type grindingAnyVariantKey struct {
	Provider  string
	Thickness float64
	Grit      string
	WithSB    bool
}

type filmKey struct {
	FilmType  string
	Thickness float64
}

func ptrKey(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// analyzeBaseSheet classifies base price rows. Unchanged rows are itemized
// so the preview shows the whole picture of the variant table.
func (f *ImportFlowImpl) analyzeBaseSheet(ctx context.Context, rows [][]string, analysis *ImportAnalysis) error {
	parsed := parseBaseSheet(rows)
	if parsed.MissingGradeColumn {
		analysis.Warnings = append(analysis.Warnings, "Nie znaleziono kolumny 'Gatunek'. Dostepne: "+joinFirst(parsed.Headers, 10))
		return nil
	}

	materials, err := f.materialRepo.ByFilter(ctx, models.MaterialFilter{}, "id ASC", 0, 0)
	if err != nil {
		return err
	}
	materialsByGrade := make(map[string]*models.Material, len(materials))
	for _, m := range materials {
		materialsByGrade[m.Grade] = m
	}

	// Ascending order so the newest price version wins the index slot.
	prices, err := f.basePriceRepo.ByFilter(ctx, models.BasePriceFilter{}, "valid_from ASC, id ASC", 0, 0)
	if err != nil {
		return err
	}
	pricesByKey := make(map[basePriceKey]*models.BasePrice, len(prices))
	for _, bp := range prices {
		pricesByKey[basePriceKey{bp.MaterialID, bp.SurfaceFinish, bp.Thickness, bp.Width}] = bp
	}

	for _, obs := range parsed.Observations {
		material := materialsByGrade[obs.Grade]
		var existing *models.BasePrice
		if material != nil {
			existing = pricesByKey[basePriceKey{material.ID, obs.Finish, obs.Thickness, obs.Width}]
		}
		classifyBase(analysis, obs, material, existing)
	}

	for _, rowErr := range parsed.Errors {
		analysis.Items = append(analysis.Items, dto.ImportChangeItemDTO{
			RowNumber:    rowErr.Row,
			ChangeType:   ChangeItemError,
			DataType:     ImportDataBasePrice,
			ErrorMessage: utils.ToPtr(rowErr.Message),
		})
		analysis.Errors = append(analysis.Errors, fmt.Sprintf("Wiersz %d: %s", rowErr.Row, rowErr.Message))
	}
	return nil
}

// classifyBase turns one base price observation into diff items and pending
// changes. A row for an unknown grade is an add that will also create the
// material; a row matching the current price within tolerance is itemized as
// unchanged so the preview shows the whole variant table.
func classifyBase(analysis *ImportAnalysis, obs baseObservation, material *models.Material, existing *models.BasePrice) {
	if material == nil {
		item := baseChangeItem(obs, ChangeItemAdded, nil)
		item.NewPrice = utils.ToPtr(obs.Price)
		analysis.Items = append(analysis.Items, item)
		analysis.Added++
		analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
			DataType:      ImportDataBasePrice,
			Action:        ImportActionAdd,
			Grade:         obs.Grade,
			SurfaceFinish: obs.Finish,
			Thickness:     obs.Thickness,
			Width:         obs.Width,
			Price:         obs.Price,
		})
		return
	}

	switch {
	case existing == nil:
		item := baseChangeItem(obs, ChangeItemAdded, material)
		item.NewPrice = utils.ToPtr(obs.Price)
		analysis.Items = append(analysis.Items, item)
		analysis.Added++
		analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
			DataType:      ImportDataBasePrice,
			Action:        ImportActionAdd,
			MaterialID:    material.ID,
			SurfaceFinish: obs.Finish,
			Thickness:     obs.Thickness,
			Width:         obs.Width,
			Price:         obs.Price,
		})
	case math.Abs(existing.PricePLNPerKg-obs.Price) < diffTolerance:
		item := baseChangeItem(obs, ChangeItemUnchanged, material)
		item.CurrentPrice = utils.ToPtr(existing.PricePLNPerKg)
		item.NewPrice = utils.ToPtr(obs.Price)
		analysis.Items = append(analysis.Items, item)
		analysis.Unchanged++
	default:
		item := baseChangeItem(obs, ChangeItemUpdated, material)
		item.CurrentPrice = utils.ToPtr(existing.PricePLNPerKg)
		item.NewPrice = utils.ToPtr(obs.Price)
		item.PriceChange = utils.ToPtr(obs.Price - existing.PricePLNPerKg)
		analysis.Items = append(analysis.Items, item)
		analysis.Updated++
		analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
			DataType: ImportDataBasePrice,
			Action:   ImportActionUpdate,
			ID:       existing.ID,
			Price:    obs.Price,
		})
	}
}

// analyzeGrindingSheet classifies grinding matrix cells from either sheet
// shape. Unchanged cells are only counted; the matrix is too dense to
// itemize rows that change nothing.
func (f *ImportFlowImpl) analyzeGrindingSheet(ctx context.Context, rows [][]string, analysis *ImportAnalysis) error {
	if len(rows) == 0 {
		return nil
	}

	prices, err := f.grindingPriceRepo.ByFilter(ctx, models.GrindingPriceFilter{}, "id ASC", 0, 0)
	if err != nil {
		return err
	}
	exact := make(map[grindingKey]*models.GrindingPrice, len(prices))
	anyVariant := make(map[grindingAnyVariantKey]*models.GrindingPrice, len(prices))
	for _, gp := range prices {
		exact[grindingKey{gp.Provider, gp.Thickness, ptrKey(gp.Grit), gp.WithSB, ptrKey(gp.WidthVariant)}] = gp
		// Legacy sheets carry no width variant; their lookup takes the first
		// cell matching on the remaining key.
		anyKey := grindingAnyVariantKey{gp.Provider, gp.Thickness, ptrKey(gp.Grit), gp.WithSB}
		if _, ok := anyVariant[anyKey]; !ok {
			anyVariant[anyKey] = gp
		}
	}

	if rowContainsToken(rows[0], "dostawca") {
		parsed := parseGrindingExportSheet(rows)
		if parsed.MissingProviderColumn {
			analysis.Warnings = append(analysis.Warnings, "Szlif: nie znaleziono kolumny 'Dostawca'. Dostepne: "+joinFirst(parsed.Headers, 8))
			return nil
		}
		for _, obs := range parsed.Observations {
			existing := exact[grindingKey{obs.Provider, obs.Thickness, ptrKey(obs.Grit), obs.WithSB, ptrKey(obs.WidthVariant)}]
			classifyGrinding(analysis, obs, existing)
		}
		for _, rowErr := range parsed.Errors {
			analysis.Errors = append(analysis.Errors, fmt.Sprintf("Wiersz %d: %s", rowErr.Row, rowErr.Message))
		}
		return nil
	}

	for _, obs := range parseGrindingLegacySheet(rows) {
		existing := anyVariant[grindingAnyVariantKey{obs.Provider, obs.Thickness, ptrKey(obs.Grit), obs.WithSB}]
		classifyGrinding(analysis, obs, existing)
	}
	return nil
}

func classifyGrinding(analysis *ImportAnalysis, obs grindingObservation, existing *models.GrindingPrice) {
	if existing != nil {
		if math.Abs(existing.PricePLNPerKg-obs.Price) < diffTolerance {
			analysis.Unchanged++
			return
		}
		item := grindingChangeItem(obs, ChangeItemUpdated)
		item.CurrentPrice = utils.ToPtr(existing.PricePLNPerKg)
		item.NewPrice = utils.ToPtr(obs.Price)
		item.PriceChange = utils.ToPtr(obs.Price - existing.PricePLNPerKg)
		analysis.Items = append(analysis.Items, item)
		analysis.Updated++
		analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
			DataType: ImportDataGrinding,
			Action:   ImportActionUpdate,
			ID:       existing.ID,
			Price:    obs.Price,
		})
		return
	}

	item := grindingChangeItem(obs, ChangeItemAdded)
	item.NewPrice = utils.ToPtr(obs.Price)
	analysis.Items = append(analysis.Items, item)
	analysis.Added++
	analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
		DataType:     ImportDataGrinding,
		Action:       ImportActionAdd,
		Provider:     obs.Provider,
		Grit:         obs.Grit,
		Thickness:    obs.Thickness,
		WithSB:       obs.WithSB,
		WidthVariant: obs.WidthVariant,
		Price:        obs.Price,
	})
}

// analyzeFilmSheet classifies film price rows from either sheet shape.
func (f *ImportFlowImpl) analyzeFilmSheet(ctx context.Context, rows [][]string, analysis *ImportAnalysis) error {
	if len(rows) == 0 {
		return nil
	}

	prices, err := f.filmPriceRepo.ByFilter(ctx, models.FilmPriceFilter{}, "id ASC", 0, 0)
	if err != nil {
		return err
	}
	index := make(map[filmKey]*models.FilmPrice, len(prices))
	for _, fp := range prices {
		index[filmKey{fp.FilmType, fp.Thickness}] = fp
	}

	if rowContainsToken(rows[0], "typ folii") {
		parsed := parseFilmExportSheet(rows)
		if parsed.MissingTypeColumn {
			analysis.Warnings = append(analysis.Warnings, "Folia: nie znaleziono kolumny 'Typ folii'. Dostepne: "+joinFirst(parsed.Headers, 8))
			return nil
		}
		for _, obs := range parsed.Observations {
			classifyFilm(analysis, obs, index[filmKey{obs.FilmType, obs.Thickness}])
		}
		for _, rowErr := range parsed.Errors {
			analysis.Errors = append(analysis.Errors, fmt.Sprintf("Wiersz %d: %s", rowErr.Row, rowErr.Message))
		}
		return nil
	}

	parsed := parseFilmLegacySheet(rows)
	if !parsed.HeaderFound {
		analysis.Warnings = append(analysis.Warnings, "Nie znaleziono naglowkow folii w oryginalnym formacie")
		return nil
	}
	for _, obs := range parsed.Observations {
		classifyFilm(analysis, obs, index[filmKey{obs.FilmType, obs.Thickness}])
	}
	return nil
}

func classifyFilm(analysis *ImportAnalysis, obs filmObservation, existing *models.FilmPrice) {
	if existing != nil {
		if math.Abs(existing.PricePLNPerKg-obs.Price) < diffTolerance {
			analysis.Unchanged++
			return
		}
		item := filmChangeItem(obs, ChangeItemUpdated)
		item.CurrentPrice = utils.ToPtr(existing.PricePLNPerKg)
		item.NewPrice = utils.ToPtr(obs.Price)
		item.PriceChange = utils.ToPtr(obs.Price - existing.PricePLNPerKg)
		analysis.Items = append(analysis.Items, item)
		analysis.Updated++
		analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
			DataType: ImportDataFilm,
			Action:   ImportActionUpdate,
			ID:       existing.ID,
			Price:    obs.Price,
		})
		return
	}

	item := filmChangeItem(obs, ChangeItemAdded)
	item.NewPrice = utils.ToPtr(obs.Price)
	analysis.Items = append(analysis.Items, item)
	analysis.Added++
	analysis.PendingChanges = append(analysis.PendingChanges, PendingChange{
		DataType:  ImportDataFilm,
		Action:    ImportActionAdd,
		FilmType:  obs.FilmType,
		Thickness: obs.Thickness,
		Price:     obs.Price,
	})
}

// PreviewImport pages the cached diff of a pending import, optionally
// filtered by change type and data type.
func (f *ImportFlowImpl) PreviewImport(ctx context.Context, importID string, page, perPage int, changeType, dataType *string) (*dto.ImportPreviewResponse, error) {
	analysis, err := f.loadAnalysis(ctx, importID)
	if err != nil {
		return nil, err
	}
	return previewResponse(analysis, page, perPage, changeType, dataType), nil
}

// ApplyImport replays the pending changes of a cached analysis in one
// transaction. The merge mode gates each change; gated-out changes are
// counted as skipped. A change that fails is recorded and the rest still
// run. One audit row records the outcome; the cache entry is dropped once
// the transaction commits.
func (f *ImportFlowImpl) ApplyImport(ctx context.Context, importID, mode string, confirm bool, metadata *ClientMetadata) (*dto.ImportApplyResponse, error) {
	if mode != MergeModeUpdateExisting && mode != MergeModeAddNew && mode != MergeModeFullSync {
		return nil, NewBusinessErrorf("IMPORT_MODE_INVALID", "Unknown merge mode: %s", ErrInvalidMergeMode, mode)
	}

	analysis, err := f.loadAnalysis(ctx, importID)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return nil, NewBusinessError("IMPORT_NOT_CONFIRMED", "Import must be confirmed before applying", ErrImportNotConfirmed)
	}

	resp := &dto.ImportApplyResponse{Success: true, ImportID: importID}
	var failures []string

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, change := range analysis.PendingChanges {
			if !modeAllows(mode, change.Action) {
				resp.RecordsSkipped++
				continue
			}

			var applyErr error
			switch change.Action {
			case ImportActionUpdate:
				applyErr = f.applyUpdate(txCtx, change, resp)
			case ImportActionAdd:
				applyErr = f.applyAdd(txCtx, change, resp)
			}
			if applyErr != nil {
				failures = append(failures, fmt.Sprintf("%s %s: %v", change.DataType, change.Action, applyErr))
			}
		}

		resp.RecordsFailed = len(failures)
		resp.Errors = failures
		resp.Success = len(failures) == 0

		status := models.AuditStatusSuccess
		if !resp.Success {
			status = models.AuditStatusFailed
		}

		filtersJSON, err := json.Marshal(map[string]string{"mode": mode})
		if err != nil {
			return err
		}

		audit := &models.ImportExportAudit{
			OperationType:  models.OperationImport,
			FileName:       analysis.Filename,
			FileType:       models.FileTypeXLSX,
			DataType:       models.DataTypeAll,
			FiltersJSON:    filtersJSON,
			RecordsCount:   analysis.TotalRows,
			RecordsAdded:   resp.RecordsAdded,
			RecordsUpdated: resp.RecordsUpdated,
			RecordsSkipped: resp.RecordsSkipped,
			UserID:         metadata.ActorOrNil(),
			Status:         status,
			CreatedAt:      utils.UTCNow(),
		}
		if len(failures) > 0 {
			if encoded, err := json.Marshal(failures); err == nil {
				audit.ErrorMessage = utils.ToPtr(string(encoded))
			}
		}
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("IMPORT_APPLY_FAILED", "Failed to apply import", err)
	}

	// The entry is one-shot; the cache TTL covers a failed delete.
	_ = f.cache.Delete(ctx, importID)

	importsAppliedTotal.WithLabelValues(mode).Inc()
	return resp, nil
}

func modeAllows(mode, action string) bool {
	switch action {
	case ImportActionUpdate:
		return mode == MergeModeUpdateExisting || mode == MergeModeFullSync
	case ImportActionAdd:
		return mode == MergeModeAddNew || mode == MergeModeFullSync
	default:
		return false
	}
}

// applyUpdate sets a new price on an existing row. A row deleted since the
// analysis is silently left alone, matching the preview-then-apply contract:
// apply only touches what it can still find.
func (f *ImportFlowImpl) applyUpdate(ctx context.Context, change PendingChange, resp *dto.ImportApplyResponse) error {
	switch change.DataType {
	case ImportDataBasePrice:
		row, err := f.basePriceRepo.ByID(ctx, change.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if err := f.basePriceRepo.UpdatePrice(ctx, change.ID, change.Price); err != nil {
			return err
		}
		resp.BasePricesImported++
		resp.RecordsUpdated++
	case ImportDataGrinding:
		row, err := f.grindingPriceRepo.ByID(ctx, change.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if err := f.grindingPriceRepo.UpdatePrice(ctx, change.ID, change.Price); err != nil {
			return err
		}
		resp.GrindingPricesImported++
		resp.RecordsUpdated++
	case ImportDataFilm:
		row, err := f.filmPriceRepo.ByID(ctx, change.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		if err := f.filmPriceRepo.UpdatePrice(ctx, change.ID, change.Price); err != nil {
			return err
		}
		resp.FilmPricesImported++
		resp.RecordsUpdated++
	default:
		return fmt.Errorf("unknown data type %q", change.DataType)
	}
	return nil
}

// applyAdd creates the row a pending add describes. Materials referenced by
// grade are created on first use; new base prices get the standard length
// for their width (twice the coil width).
func (f *ImportFlowImpl) applyAdd(ctx context.Context, change PendingChange, resp *dto.ImportApplyResponse) error {
	switch change.DataType {
	case ImportDataBasePrice:
		materialID := change.MaterialID
		if materialID == 0 {
			material, err := f.ensureMaterial(ctx, change.Grade)
			if err != nil {
				return err
			}
			materialID = material.ID
		}
		row := &models.BasePrice{
			MaterialID:    materialID,
			SurfaceFinish: change.SurfaceFinish,
			Thickness:     change.Thickness,
			Width:         change.Width,
			Length:        change.Width * 2,
			PricePLNPerKg: change.Price,
			ValidFrom:     utils.UTCNow(),
			IsActive:      true,
		}
		if err := f.basePriceRepo.Save(ctx, row); err != nil {
			return err
		}
		resp.BasePricesImported++
		resp.RecordsAdded++
	case ImportDataGrinding:
		row := &models.GrindingPrice{
			Provider:      change.Provider,
			Grit:          change.Grit,
			WidthVariant:  change.WidthVariant,
			Thickness:     change.Thickness,
			PricePLNPerKg: change.Price,
			WithSB:        change.WithSB,
			IsActive:      true,
		}
		if err := f.grindingPriceRepo.Save(ctx, row); err != nil {
			return err
		}
		resp.GrindingPricesImported++
		resp.RecordsAdded++
	case ImportDataFilm:
		row := &models.FilmPrice{
			FilmType:      change.FilmType,
			Thickness:     change.Thickness,
			PricePLNPerKg: change.Price,
			IsActive:      true,
		}
		if err := f.filmPriceRepo.Save(ctx, row); err != nil {
			return err
		}
		resp.FilmPricesImported++
		resp.RecordsAdded++
	default:
		return fmt.Errorf("unknown data type %q", change.DataType)
	}
	return nil
}

// ensureMaterial finds a material by grade or creates it from the grade seed
// table. Unseen grades get the stainless default configuration.
func (f *ImportFlowImpl) ensureMaterial(ctx context.Context, grade string) (*models.Material, error) {
	if grade == "" {
		return nil, ErrGradeRequired
	}

	material, err := f.materialRepo.ByGrade(ctx, grade)
	if err != nil {
		return nil, err
	}
	if material != nil {
		return material, nil
	}

	seed := models.SeedForGrade(grade)
	material = &models.Material{
		Name:             seed.Name,
		Category:         seed.Category,
		Grade:            seed.Grade,
		Density:          seed.Density,
		EquivalentGrades: pq.StringArray(seed.EquivalentGrades),
		IsActive:         true,
	}
	if seed.Description != "" {
		material.Description = utils.ToPtr(seed.Description)
	}
	if err := f.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// CancelImport drops a pending import from the cache.
func (f *ImportFlowImpl) CancelImport(ctx context.Context, importID string) error {
	payload, err := f.cache.Get(ctx, importID)
	if err != nil {
		return NewBusinessError("IMPORT_CACHE_FAILED", "Failed to read pending import", err)
	}
	if payload == nil {
		return NewBusinessErrorf("IMPORT_NOT_FOUND", "Pending import not found: %s", ErrImportNotFound, importID)
	}
	if err := f.cache.Delete(ctx, importID); err != nil {
		return NewBusinessError("IMPORT_CACHE_FAILED", "Failed to cancel pending import", err)
	}
	return nil
}

// History lists past import and export runs newest-first, optionally
// restricted to one operation type.
func (f *ImportFlowImpl) History(ctx context.Context, operationType *string, limit, offset int) (*dto.ImportExportHistoryResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filter := models.ImportExportAuditFilter{OperationType: operationType}
	rows, err := f.auditRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("IMPORT_EXPORT_HISTORY_FAILED", "Failed to load import/export history", err)
	}
	total, err := f.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("IMPORT_EXPORT_HISTORY_FAILED", "Failed to count import/export history", err)
	}

	items := make([]dto.ImportExportHistoryItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toImportExportHistoryItem(row))
	}

	return &dto.ImportExportHistoryResponse{
		Message: "Import/export history retrieved successfully",
		Items:   items,
		Total:   total,
		Page:    offset/limit + 1,
		PerPage: limit,
	}, nil
}

func (f *ImportFlowImpl) loadAnalysis(ctx context.Context, importID string) (*ImportAnalysis, error) {
	payload, err := f.cache.Get(ctx, importID)
	if err != nil {
		return nil, NewBusinessError("IMPORT_CACHE_FAILED", "Failed to read pending import", err)
	}
	if payload == nil {
		return nil, NewBusinessErrorf("IMPORT_NOT_FOUND", "Pending import not found: %s", ErrImportNotFound, importID)
	}

	var analysis ImportAnalysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return nil, NewBusinessError("IMPORT_CACHE_FAILED", "Failed to decode pending import", err)
	}
	return &analysis, nil
}

// previewResponse pages the diff items of an analysis, optionally filtered
// by change type and data type.
func previewResponse(analysis *ImportAnalysis, page, perPage int, changeType, dataType *string) *dto.ImportPreviewResponse {
	if page < 1 {
		page = 1
	}
	if perPage < 10 || perPage > 200 {
		perPage = importDefaultPageSize
	}

	items := analysis.Items
	if changeType != nil || dataType != nil {
		items = make([]dto.ImportChangeItemDTO, 0, len(analysis.Items))
		for _, item := range analysis.Items {
			if changeType != nil && item.ChangeType != *changeType {
				continue
			}
			if dataType != nil && item.DataType != *dataType {
				continue
			}
			items = append(items, item)
		}
	}

	totalPages := (len(items) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > len(items) {
		start = len(items)
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	pageItems := make([]dto.ImportChangeItemDTO, end-start)
	copy(pageItems, items[start:end])

	return &dto.ImportPreviewResponse{
		ImportID:   analysis.ImportID,
		Filename:   analysis.Filename,
		TotalRows:  analysis.TotalRows,
		ValidRows:  analysis.ValidRows,
		ErrorRows:  analysis.ErrorRows,
		Added:      analysis.Added,
		Updated:    analysis.Updated,
		Removed:    analysis.Removed,
		Unchanged:  analysis.Unchanged,
		Items:      pageItems,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Errors:     analysis.Errors,
		Warnings:   analysis.Warnings,
	}
}

func isSpreadsheetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	default:
		return false
	}
}

// joinFirst joins up to n values, the shape column lists take in warnings.
func joinFirst(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}

func baseChangeItem(obs baseObservation, changeType string, material *models.Material) dto.ImportChangeItemDTO {
	item := dto.ImportChangeItemDTO{
		RowNumber:     obs.RowNumber,
		ChangeType:    changeType,
		DataType:      ImportDataBasePrice,
		Grade:         utils.ToPtr(obs.Grade),
		SurfaceFinish: utils.ToPtr(obs.Finish),
		Thickness:     utils.ToPtr(obs.Thickness),
		Width:         utils.ToPtr(obs.Width),
	}
	if material != nil {
		item.MaterialName = utils.ToPtr(material.Name)
	}
	return item
}

func grindingChangeItem(obs grindingObservation, changeType string) dto.ImportChangeItemDTO {
	return dto.ImportChangeItemDTO{
		RowNumber:  obs.RowNumber,
		ChangeType: changeType,
		DataType:   ImportDataGrinding,
		Provider:   utils.ToPtr(obs.Provider),
		Grit:       obs.Grit,
		WithSB:     utils.ToPtr(obs.WithSB),
		Thickness:  utils.ToPtr(obs.Thickness),
	}
}

func filmChangeItem(obs filmObservation, changeType string) dto.ImportChangeItemDTO {
	return dto.ImportChangeItemDTO{
		RowNumber:  obs.RowNumber,
		ChangeType: changeType,
		DataType:   ImportDataFilm,
		FilmType:   utils.ToPtr(obs.FilmType),
		Thickness:  utils.ToPtr(obs.Thickness),
	}
}

func toImportExportHistoryItem(row *models.ImportExportAudit) dto.ImportExportHistoryItemDTO {
	item := dto.ImportExportHistoryItemDTO{
		ID:             row.ID,
		OperationType:  row.OperationType,
		FileName:       row.FileName,
		FileType:       row.FileType,
		DataType:       row.DataType,
		RecordsCount:   row.RecordsCount,
		RecordsAdded:   row.RecordsAdded,
		RecordsUpdated: row.RecordsUpdated,
		RecordsSkipped: row.RecordsSkipped,
		User:           "unknown",
		Status:         row.Status,
		ErrorMessage:   row.ErrorMessage,
		CreatedAt:      row.CreatedAt.Format(time.RFC3339),
	}
	if row.UserID != nil && *row.UserID != "" {
		item.User = *row.UserID
	}
	return item
}
