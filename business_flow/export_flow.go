package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// Sheet titles and headers of exported workbooks. Analyze resolves them
// through its synonym lists, so an exported file re-imports as unchanged.
const (
	sheetBasePrices    = "Ceny bazowe"
	sheetGrinding      = "Cennik szlifu"
	sheetFilm          = "Cennik folii"
	sheetThicknessMods = "Modyfikatory grubosci"
	sheetWidthMods     = "Modyfikatory szerokosci"
)

var (
	basePriceExportHeaders    = []string{"Gatunek", "Nazwa materialu", "Kategoria", "Wykoncznie", "Grubosc (mm)", "Szerokosc (mm)", "Dlugosc (mm)", "Cena PLN/kg", "Uwagi"}
	grindingExportHeaders     = []string{"Dostawca", "Granulacja", "Grubosc (mm)", "Cena PLN/kg", "Z SB", "Wariant szerokosci"}
	filmExportHeaders         = []string{"Typ folii", "Grubosc (mm)", "Cena PLN/kg"}
	thicknessModExportHeaders = []string{"Gatunek", "Wykoncznie", "Szerokosc bazowa", "Grubosc (mm)", "Modyfikator PLN/kg"}
	widthModExportHeaders     = []string{"Gatunek", "Szerokosc (mm)", "Modyfikator PLN/kg"}
)

// widthModifierAllGrades is rendered for width modifiers whose Grade is NULL.
const widthModifierAllGrades = "(wszystkie)"

var exportFileNames = map[string]string{
	models.DataTypeBasePrices: "ceny_bazowe",
	models.DataTypeGrinding:   "cennik_szlifu",
	models.DataTypeFilm:       "cennik_folii",
	models.DataTypeModifiers:  "modyfikatory",
	models.DataTypeAll:        "cennik_pelny",
}

// ExportFlow renders price tables into downloadable spreadsheet files.
type ExportFlow interface {
	ExportPrices(ctx context.Context, req *dto.ExportPricesRequest, metadata *ClientMetadata) (*dto.ExportFileDTO, error)
}

// ExportFlowImpl implements ExportFlow.
type ExportFlowImpl struct {
	basePriceRepo     repository.BasePriceRepository
	grindingPriceRepo repository.GrindingPriceRepository
	filmPriceRepo     repository.FilmPriceRepository
	thicknessModRepo  repository.ThicknessModifierRepository
	widthModRepo      repository.WidthModifierRepository
	auditRepo         repository.ImportExportAuditRepository
}

// NewExportFlow creates a new export flow.
func NewExportFlow(
	basePriceRepo repository.BasePriceRepository,
	grindingPriceRepo repository.GrindingPriceRepository,
	filmPriceRepo repository.FilmPriceRepository,
	thicknessModRepo repository.ThicknessModifierRepository,
	widthModRepo repository.WidthModifierRepository,
	auditRepo repository.ImportExportAuditRepository,
) ExportFlow {
	return &ExportFlowImpl{
		basePriceRepo:     basePriceRepo,
		grindingPriceRepo: grindingPriceRepo,
		filmPriceRepo:     filmPriceRepo,
		thicknessModRepo:  thicknessModRepo,
		widthModRepo:      widthModRepo,
		auditRepo:         auditRepo,
	}
}

// ExportPrices renders the requested price tables as an XLSX workbook or a
// CSV file and records the export in the audit history. CSV is limited to
// base prices; the remaining tables carry columns that only make sense in a
// multi-sheet workbook.
func (f *ExportFlowImpl) ExportPrices(ctx context.Context, req *dto.ExportPricesRequest, metadata *ClientMetadata) (*dto.ExportFileDTO, error) {
	dataType, err := normalizeExportType(req.Type)
	if err != nil {
		return nil, err
	}
	format := req.Format
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, NewBusinessErrorf("EXPORT_FORMAT_INVALID", "Unknown export format: %s", ErrInvalidExportFormat, req.Format)
	}
	if format == ExportFormatCSV && dataType != models.DataTypeBasePrices {
		return nil, NewBusinessError("EXPORT_FORMAT_INVALID", "CSV export is only available for base prices", ErrInvalidExportFormat)
	}

	var (
		content []byte
		records int
	)
	switch {
	case format == ExportFormatCSV:
		content, records, err = f.renderBasePricesCSV(ctx, req)
	case dataType == models.DataTypeBasePrices:
		content, records, err = f.renderBasePricesWorkbook(ctx, req)
	case dataType == models.DataTypeGrinding:
		content, records, err = f.renderGrindingWorkbook(ctx, req)
	case dataType == models.DataTypeFilm:
		content, records, err = f.renderFilmWorkbook(ctx, req)
	case dataType == models.DataTypeModifiers:
		content, records, err = f.renderModifiersWorkbook(ctx)
	default:
		content, records, err = f.renderFullWorkbook(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	filename := exportFilename(dataType, format)
	contentType := contentTypeXLSX
	if format == ExportFormatCSV {
		contentType = contentTypeCSV
	}

	if err := f.recordExport(ctx, req, dataType, format, filename, records, metadata); err != nil {
		return nil, err
	}

	exportsTotal.WithLabelValues(dataType, format).Inc()
	return &dto.ExportFileDTO{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func normalizeExportType(dataType string) (string, error) {
	switch dataType {
	case models.DataTypeBasePrices, models.DataTypeGrinding, models.DataTypeFilm, models.DataTypeModifiers, models.DataTypeAll:
		return dataType, nil
	default:
		return "", NewBusinessErrorf("EXPORT_TYPE_INVALID", "Unknown export data type: %s", ErrInvalidDataType, dataType)
	}
}

// exportFilename stamps the download name with Warsaw local time, the clock
// the catalog's users schedule their price rounds in.
func exportFilename(dataType, format string) string {
	return fmt.Sprintf("%s_%s.%s", exportFileNames[dataType], utils.WarsawNow().Format("20060102_1504"), format)
}

// recordExport writes one audit row per produced file. Exports never mutate
// prices, so the row is informational: who pulled which table, when, with
// which filters.
func (f *ExportFlowImpl) recordExport(ctx context.Context, req *dto.ExportPricesRequest, dataType, format, filename string, records int, metadata *ClientMetadata) error {
	filtersJSON, err := json.Marshal(req)
	if err != nil {
		return NewBusinessError("EXPORT_AUDIT_FAILED", "Failed to encode export filters", err)
	}
	audit := &models.ImportExportAudit{
		OperationType: models.OperationExport,
		FileName:      filename,
		FileType:      format,
		DataType:      dataType,
		FiltersJSON:   filtersJSON,
		RecordsCount:  records,
		UserID:        metadata.ActorOrNil(),
		Status:        models.AuditStatusSuccess,
		CreatedAt:     utils.UTCNow(),
	}
	if err := f.auditRepo.Save(ctx, audit); err != nil {
		return NewBusinessError("EXPORT_AUDIT_FAILED", "Failed to record export", err)
	}
	return nil
}

// Fetchers

func exportOnlyActive(req *dto.ExportPricesRequest) *bool {
	if req.OnlyActive == nil || *req.OnlyActive {
		return utils.ToPtr(true)
	}
	return nil
}

func (f *ExportFlowImpl) fetchBasePrices(ctx context.Context, req *dto.ExportPricesRequest) ([]*models.BasePrice, error) {
	filter := models.BasePriceFilter{
		Categories:      req.Categories,
		SurfaceFinishes: req.SurfaceFinishes,
		ThicknessMin:    req.ThicknessMin,
		ThicknessMax:    req.ThicknessMax,
		WidthMin:        req.WidthMin,
		WidthMax:        req.WidthMax,
		IsActive:        exportOnlyActive(req),
	}
	return f.basePriceRepo.ListForExport(ctx, filter)
}

func (f *ExportFlowImpl) fetchGrindingPrices(ctx context.Context, req *dto.ExportPricesRequest) ([]*models.GrindingPrice, error) {
	filter := models.GrindingPriceFilter{
		Providers:    req.Providers,
		ThicknessMin: req.ThicknessMin,
		ThicknessMax: req.ThicknessMax,
		IsActive:     exportOnlyActive(req),
	}
	return f.grindingPriceRepo.ByFilter(ctx, filter, "provider ASC, grit ASC, thickness ASC", 0, 0)
}

func (f *ExportFlowImpl) fetchFilmPrices(ctx context.Context, req *dto.ExportPricesRequest) ([]*models.FilmPrice, error) {
	filter := models.FilmPriceFilter{
		FilmTypes:    req.FilmTypes,
		ThicknessMin: req.ThicknessMin,
		ThicknessMax: req.ThicknessMax,
		IsActive:     exportOnlyActive(req),
	}
	return f.filmPriceRepo.ByFilter(ctx, filter, "film_type ASC, thickness ASC", 0, 0)
}

func (f *ExportFlowImpl) fetchThicknessModifiers(ctx context.Context) ([]*models.ThicknessModifier, error) {
	return f.thicknessModRepo.ByFilter(ctx, models.ThicknessModifierFilter{IsActive: utils.ToPtr(true)}, "grade ASC, surface_finish ASC, thickness ASC", 0, 0)
}

func (f *ExportFlowImpl) fetchWidthModifiers(ctx context.Context) ([]*models.WidthModifier, error) {
	return f.widthModRepo.ByFilter(ctx, models.WidthModifierFilter{IsActive: utils.ToPtr(true)}, "grade ASC, width ASC", 0, 0)
}

// Renderers

func (f *ExportFlowImpl) renderBasePricesWorkbook(ctx context.Context, req *dto.ExportPricesRequest) ([]byte, int, error) {
	prices, err := f.fetchBasePrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load base prices", err)
	}
	wb, err := newExportWorkbook()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to create Excel file", err)
	}
	defer wb.close()
	if err := wb.addSheet(sheetBasePrices, basePriceExportHeaders, basePriceExportRows(prices), []int{5, 6, 7, 8}); err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	content, err := wb.bytes()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return content, len(prices), nil
}

func (f *ExportFlowImpl) renderGrindingWorkbook(ctx context.Context, req *dto.ExportPricesRequest) ([]byte, int, error) {
	prices, err := f.fetchGrindingPrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load grinding prices", err)
	}
	wb, err := newExportWorkbook()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to create Excel file", err)
	}
	defer wb.close()
	if err := wb.addSheet(sheetGrinding, grindingExportHeaders, grindingExportRows(prices), []int{3, 4}); err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	content, err := wb.bytes()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return content, len(prices), nil
}

func (f *ExportFlowImpl) renderFilmWorkbook(ctx context.Context, req *dto.ExportPricesRequest) ([]byte, int, error) {
	prices, err := f.fetchFilmPrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load film prices", err)
	}
	wb, err := newExportWorkbook()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to create Excel file", err)
	}
	defer wb.close()
	if err := wb.addSheet(sheetFilm, filmExportHeaders, filmExportRows(prices), []int{2, 3}); err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	content, err := wb.bytes()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return content, len(prices), nil
}

func (f *ExportFlowImpl) renderModifiersWorkbook(ctx context.Context) ([]byte, int, error) {
	thicknessMods, err := f.fetchThicknessModifiers(ctx)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load thickness modifiers", err)
	}
	widthMods, err := f.fetchWidthModifiers(ctx)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load width modifiers", err)
	}
	wb, err := newExportWorkbook()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to create Excel file", err)
	}
	defer wb.close()
	if err := wb.addSheet(sheetThicknessMods, thicknessModExportHeaders, thicknessModExportRows(thicknessMods), []int{3, 4, 5}); err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	if err := wb.addSheet(sheetWidthMods, widthModExportHeaders, widthModExportRows(widthMods), []int{2, 3}); err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	content, err := wb.bytes()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return content, len(thicknessMods) + len(widthMods), nil
}

func (f *ExportFlowImpl) renderFullWorkbook(ctx context.Context, req *dto.ExportPricesRequest) ([]byte, int, error) {
	basePrices, err := f.fetchBasePrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load base prices", err)
	}
	grindingPrices, err := f.fetchGrindingPrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load grinding prices", err)
	}
	filmPrices, err := f.fetchFilmPrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load film prices", err)
	}
	thicknessMods, err := f.fetchThicknessModifiers(ctx)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load thickness modifiers", err)
	}
	widthMods, err := f.fetchWidthModifiers(ctx)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load width modifiers", err)
	}

	wb, err := newExportWorkbook()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to create Excel file", err)
	}
	defer wb.close()

	type sheet struct {
		name     string
		headers  []string
		rows     [][]any
		centered []int
	}
	sheets := []sheet{
		{sheetBasePrices, basePriceExportHeaders, basePriceExportRows(basePrices), []int{5, 6, 7, 8}},
		{sheetGrinding, grindingExportHeaders, grindingExportRows(grindingPrices), []int{3, 4}},
		{sheetFilm, filmExportHeaders, filmExportRows(filmPrices), []int{2, 3}},
		{sheetThicknessMods, thicknessModExportHeaders, thicknessModExportRows(thicknessMods), []int{3, 4, 5}},
		{sheetWidthMods, widthModExportHeaders, widthModExportRows(widthMods), []int{2, 3}},
	}
	records := 0
	for _, s := range sheets {
		if err := wb.addSheet(s.name, s.headers, s.rows, s.centered); err != nil {
			return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
		}
		records += len(s.rows)
	}

	content, err := wb.bytes()
	if err != nil {
		return nil, 0, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return content, records, nil
}

func (f *ExportFlowImpl) renderBasePricesCSV(ctx context.Context, req *dto.ExportPricesRequest) ([]byte, int, error) {
	prices, err := f.fetchBasePrices(ctx, req)
	if err != nil {
		return nil, 0, NewBusinessError("EXPORT_QUERY_FAILED", "Failed to load base prices", err)
	}

	var buf bytes.Buffer
	// BOM so Excel opens the file as UTF-8 instead of the locale codepage.
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(basePriceExportHeaders); err != nil {
		return nil, 0, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV file", err)
	}
	for _, row := range basePriceExportRows(prices) {
		record := make([]string, 0, len(row))
		for _, v := range row {
			record = append(record, csvCell(v))
		}
		if err := w.Write(record); err != nil {
			return nil, 0, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV file", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV file", err)
	}
	return buf.Bytes(), len(prices), nil
}

func csvCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}

// Row builders

func basePriceExportRows(prices []*models.BasePrice) [][]any {
	rows := make([][]any, 0, len(prices))
	for _, p := range prices {
		var grade, name, category string
		if p.Material != nil {
			grade, name, category = p.Material.Grade, p.Material.Name, p.Material.Category
		}
		notes := ""
		if p.Notes != nil {
			notes = *p.Notes
		}
		rows = append(rows, []any{grade, name, category, p.SurfaceFinish, p.Thickness, p.Width, p.Length, p.PricePLNPerKg, notes})
	}
	return rows
}

func grindingExportRows(prices []*models.GrindingPrice) [][]any {
	rows := make([][]any, 0, len(prices))
	for _, p := range prices {
		grit := ""
		if p.Grit != nil {
			grit = *p.Grit
		}
		withSB := "Nie"
		if p.WithSB {
			withSB = "Tak"
		}
		variant := ""
		if p.WidthVariant != nil {
			variant = *p.WidthVariant
		}
		rows = append(rows, []any{p.Provider, grit, p.Thickness, p.PricePLNPerKg, withSB, variant})
	}
	return rows
}

func filmExportRows(prices []*models.FilmPrice) [][]any {
	rows := make([][]any, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []any{p.FilmType, p.Thickness, p.PricePLNPerKg})
	}
	return rows
}

func thicknessModExportRows(mods []*models.ThicknessModifier) [][]any {
	rows := make([][]any, 0, len(mods))
	for _, m := range mods {
		rows = append(rows, []any{m.Grade, m.SurfaceFinish, m.BaseWidth, m.Thickness, m.PriceModifier})
	}
	return rows
}

func widthModExportRows(mods []*models.WidthModifier) [][]any {
	rows := make([][]any, 0, len(mods))
	for _, m := range mods {
		grade := widthModifierAllGrades
		if m.Grade != nil {
			grade = *m.Grade
		}
		rows = append(rows, []any{grade, m.Width, m.PriceModifier})
	}
	return rows
}

// Workbook writer

// exportWorkbook accumulates styled sheets: dark blue bold header row, thin
// borders on every cell, centered numeric columns, fitted column widths.
type exportWorkbook struct {
	file        *excelize.File
	firstSheet  bool
	headerStyle int
	bodyStyle   int
	centerStyle int
}

func newExportWorkbook() (*exportWorkbook, error) {
	file := excelize.NewFile()
	headerStyle, err := file.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	bodyStyle, err := file.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	centerStyle, err := file.NewStyle(&excelize.Style{
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &exportWorkbook{
		file:        file,
		firstSheet:  true,
		headerStyle: headerStyle,
		bodyStyle:   bodyStyle,
		centerStyle: centerStyle,
	}, nil
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return borders
}

// addSheet writes one header row plus data rows and styles them. centeredCols
// are 1-based column numbers whose body cells get centered (numeric columns).
func (w *exportWorkbook) addSheet(name string, headers []string, rows [][]any, centeredCols []int) error {
	if w.firstSheet {
		w.file.SetSheetName(w.file.GetSheetName(0), name)
		w.firstSheet = false
	} else if _, err := w.file.NewSheet(name); err != nil {
		return err
	}

	headerRow := make([]any, len(headers))
	widths := make([]int, len(headers))
	for i, h := range headers {
		headerRow[i] = h
		widths[i] = len(h)
	}
	if err := w.file.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}

	for ri := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(name, cellRef, &rows[ri]); err != nil {
			return err
		}
		for ci, v := range rows[ri] {
			if ci >= len(widths) {
				break
			}
			if l := len(fmt.Sprint(v)); l > widths[ci] {
				widths[ci] = l
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(name, "A1", lastCol+"1", w.headerStyle); err != nil {
		return err
	}
	if len(rows) > 0 {
		lastRow := strconv.Itoa(len(rows) + 1)
		if err := w.file.SetCellStyle(name, "A2", lastCol+lastRow, w.bodyStyle); err != nil {
			return err
		}
		for _, col := range centeredCols {
			colName, err := excelize.ColumnNumberToName(col)
			if err != nil {
				return err
			}
			if err := w.file.SetCellStyle(name, colName+"2", colName+lastRow, w.centerStyle); err != nil {
				return err
			}
		}
	}

	for i := range headers {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(widths[i] + 2)
		if width > 50 {
			width = 50
		}
		if err := w.file.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *exportWorkbook) bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *exportWorkbook) close() {
	_ = w.file.Close()
}
