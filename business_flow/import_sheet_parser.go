package businessflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
)

// Workbooks arrive in two shapes: files previously exported by this system
// (one header row, one record per row) and the hand-maintained legacy
// workbooks the company used before it. Sheet and column names are matched
// against synonym lists so both shapes, plus the usual spelling drift
// (diacritics, English headers), resolve to the same fields. Everything in
// this file is pure parsing; the diff against the catalog happens in the
// import flow.

// Sheet name synonyms, matched case-insensitively and in priority order.
var (
	baseSheetNames     = []string{"cennik baza", "ceny bazowe", "base prices", "base"}
	grindingSheetNames = []string{"dane szlif", "cennik szlifu", "szlif", "grinding"}
	filmSheetNames     = []string{"dane folia", "cennik folii", "folia", "film"}
)

// Column synonyms for the base price sheet.
var (
	gradeColumnNames     = []string{"gatunek", "grade", "material"}
	surfaceColumnNames   = []string{"powierzchnia", "surface", "wykończenie", "wykoncznie", "finish", "wykonczenie"}
	thicknessColumnNames = []string{"grubość", "grubosc", "grubosc (mm)", "thickness"}
	widthColumnNames     = []string{"szerokość", "szerokosc", "szerokosc (mm)", "width"}
	basePriceColumnNames = []string{"z papierem", "cena pln/kg", "cena", "price", "pln/kg"}
)

// Column synonyms for export-shaped grinding and film sheets.
var (
	providerColumnNames       = []string{"dostawca", "provider"}
	gritColumnNames           = []string{"granulacja", "grit"}
	exportThicknessColumns    = []string{"grubosc (mm)", "grubosc", "thickness"}
	exportPriceColumns        = []string{"cena pln/kg", "cena", "price"}
	withSBColumnNames         = []string{"z sb", "with_sb", "sb"}
	widthVariantColumnNames   = []string{"wariant szerokosci", "width_variant", "wariant"}
	filmTypeColumnNames       = []string{"typ folii", "film_type", "typ"}
	truthyCellValues          = []string{"tak", "yes", "true", "1"}
	legacyFilmHeaderTokens    = []string{"Novacel", "FOLIA", "Nitto"}
	legacySectionProviderSet  = []string{models.ProviderCAMU, models.ProviderBABCIA, models.ProviderCOSTA}
	legacyGritHeaderTokens    = []string{"K320", "K240"}
	legacyPlainSBColumnHeader = "SB [zł/kg]"
)

// legacyFilmNames maps legacy workbook column headers to film types. Exact
// match on the trimmed header; exports use the type values directly.
var legacyFilmNames = map[string]string{
	"cena FZ":      models.FilmZwykla,
	"cena FF":      models.FilmFiber,
	"FOLIA ZWYKŁA": models.FilmZwykla,
	"FOLIA FIBER":  models.FilmFiber,
	"Novacel 4228": models.FilmNovacel,
	"Nitto 3100":   models.FilmNitto3100,
	"Nitto 3067M":  models.FilmNitto3067M,
	"NITTO AFP585": models.FilmNittoAFP,
	"NITTO 224PR":  models.FilmNitto224PR,
}

// baseObservation is one parsed base price row, before diffing.
type baseObservation struct {
	RowNumber int
	Grade     string
	Finish    string
	Thickness float64
	Width     float64
	Price     float64
}

// grindingObservation is one parsed grinding matrix cell. Legacy sheets never
// carry a width variant; nil means the price applies regardless.
type grindingObservation struct {
	RowNumber    int
	Provider     string
	Grit         *string
	Thickness    float64
	Price        float64
	WithSB       bool
	WidthVariant *string
}

// filmObservation is one parsed film price row.
type filmObservation struct {
	RowNumber int
	FilmType  string
	Thickness float64
	Price     float64
}

// rowError is a parse failure tied to a 1-based sheet row. Row errors never
// abort a sheet; the remaining rows are still processed.
type rowError struct {
	Row     int
	Message string
}

type baseSheetResult struct {
	Observations       []baseObservation
	Errors             []rowError
	MissingGradeColumn bool
	Headers            []string
}

type grindingExportResult struct {
	Observations          []grindingObservation
	Errors                []rowError
	MissingProviderColumn bool
	Headers               []string
}

type filmExportResult struct {
	Observations      []filmObservation
	Errors            []rowError
	MissingTypeColumn bool
	Headers           []string
}

type filmLegacyResult struct {
	Observations []filmObservation
	HeaderFound  bool
}

// findSheet resolves a workbook sheet by synonym, earlier synonyms first.
func findSheet(sheetNames []string, synonyms []string) string {
	for _, syn := range synonyms {
		for _, name := range sheetNames {
			if strings.ToLower(name) == syn {
				return name
			}
		}
	}
	return ""
}

// rowContainsToken reports whether any cell of the row contains the token,
// case-insensitively. Used to sniff sheet formats from their header row.
func rowContainsToken(row []string, token string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), token) {
			return true
		}
	}
	return false
}

// cellAt returns the trimmed cell at idx, or "" when the row is shorter or
// the column was not resolved (idx < 0).
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// headerIndex resolves a column through its synonym list, earlier synonyms
// first. Returns -1 when no header matches.
func headerIndex(headers []string, synonyms []string) int {
	for _, syn := range synonyms {
		for i, h := range headers {
			if strings.ToLower(strings.TrimSpace(h)) == syn {
				return i
			}
		}
	}
	return -1
}

// trimmedHeaders returns the header row with every cell trimmed.
func trimmedHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

// parseCellFloat parses a numeric cell, tolerating comma decimal separators
// and embedded spaces ("1 250,50").
func parseCellFloat(s string) (float64, error) {
	cleaned := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// parseDimensionCell parses a thickness or width cell; an empty cell counts
// as zero, matching an absent column.
func parseDimensionCell(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseCellFloat(s)
}

// isTruthyCell reports whether a cell marks a yes/no column as set.
func isTruthyCell(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range truthyCellValues {
		if v == t {
			return true
		}
	}
	return false
}

// optionalCell normalizes an optional text cell to a pointer. Empty cells
// and the "nan"/"None" artifacts of previously exported workbooks are nil.
func optionalCell(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" || v == "nan" || v == "None" {
		return nil
	}
	return &v
}

// isPlainNumber reports whether the cell is digits with optional dots, the
// shape thickness and price cells take in the legacy grinding layout.
// Comma decimals and signs do not occur there.
func isPlainNumber(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.':
		default:
			return false
		}
	}
	return hasDigit
}

// parseBaseSheet reads a base price sheet: row 1 headers, one variant per
// row. Rows with an empty grade or an empty price cell are ignored; rows
// with unparseable numbers become row errors.
func parseBaseSheet(rows [][]string) *baseSheetResult {
	result := &baseSheetResult{}
	if len(rows) == 0 {
		result.MissingGradeColumn = true
		return result
	}

	headers := trimmedHeaders(rows[0])
	result.Headers = headers

	gradeIdx := headerIndex(headers, gradeColumnNames)
	if gradeIdx < 0 {
		result.MissingGradeColumn = true
		return result
	}
	surfaceIdx := headerIndex(headers, surfaceColumnNames)
	thicknessIdx := headerIndex(headers, thicknessColumnNames)
	widthIdx := headerIndex(headers, widthColumnNames)
	priceIdx := headerIndex(headers, basePriceColumnNames)

	for i := 1; i < len(rows); i++ {
		rowNumber := i + 1
		row := rows[i]

		grade := cellAt(row, gradeIdx)
		if grade == "" {
			continue
		}
		price := cellAt(row, priceIdx)
		if price == "" {
			continue
		}

		thickness, err := parseDimensionCell(cellAt(row, thicknessIdx))
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa grubosc: %v", err)})
			continue
		}
		width, err := parseDimensionCell(cellAt(row, widthIdx))
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa szerokosc: %v", err)})
			continue
		}
		priceValue, err := parseCellFloat(price)
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa cena: %v", err)})
			continue
		}

		result.Observations = append(result.Observations, baseObservation{
			RowNumber: rowNumber,
			Grade:     grade,
			Finish:    cellAt(row, surfaceIdx),
			Thickness: thickness,
			Width:     width,
			Price:     priceValue,
		})
	}
	return result
}

// parseGrindingExportSheet reads an export-shaped grinding sheet (the layout
// this system writes): Dostawca, Granulacja, Grubosc (mm), Cena PLN/kg,
// Z SB, Wariant szerokosci. Unknown providers skip the row.
func parseGrindingExportSheet(rows [][]string) *grindingExportResult {
	result := &grindingExportResult{}
	if len(rows) == 0 {
		result.MissingProviderColumn = true
		return result
	}

	headers := trimmedHeaders(rows[0])
	result.Headers = headers

	providerIdx := headerIndex(headers, providerColumnNames)
	if providerIdx < 0 {
		result.MissingProviderColumn = true
		return result
	}
	gritIdx := headerIndex(headers, gritColumnNames)
	thicknessIdx := headerIndex(headers, exportThicknessColumns)
	priceIdx := headerIndex(headers, exportPriceColumns)
	sbIdx := headerIndex(headers, withSBColumnNames)
	widthVariantIdx := headerIndex(headers, widthVariantColumnNames)

	for i := 1; i < len(rows); i++ {
		rowNumber := i + 1
		row := rows[i]

		provider := cellAt(row, providerIdx)
		if provider == "" || !models.IsKnownProvider(provider) {
			continue
		}
		price := cellAt(row, priceIdx)
		if price == "" {
			continue
		}

		thickness, err := parseDimensionCell(cellAt(row, thicknessIdx))
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa grubosc: %v", err)})
			continue
		}
		priceValue, err := parseCellFloat(price)
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa cena: %v", err)})
			continue
		}

		result.Observations = append(result.Observations, grindingObservation{
			RowNumber:    rowNumber,
			Provider:     provider,
			Grit:         optionalCell(cellAt(row, gritIdx)),
			Thickness:    thickness,
			Price:        priceValue,
			WithSB:       isTruthyCell(cellAt(row, sbIdx)),
			WidthVariant: optionalCell(cellAt(row, widthVariantIdx)),
		})
	}
	return result
}

// Legacy "DANE SZLIF" layout: a provider banner row opens a section, a
// header row (empty first cell, K-grit labels) maps columns to grits, and
// each numeric-leading row carries one price per mapped column.
type sectionState int

const (
	sectionIdle sectionState = iota
	sectionAwaitingGrits
	sectionActive
)

type gritColumn struct {
	Index  int
	Header string
}

// grindingSectionParser walks the legacy grinding layout row by row.
// A provider banner resets the column map; prices are only emitted once the
// section has seen its own grit header row.
type grindingSectionParser struct {
	state    sectionState
	provider string
	columns  []gritColumn
}

// feed consumes one sheet row and returns the observations it yields.
func (p *grindingSectionParser) feed(rowNumber int, row []string) []grindingObservation {
	first := cellAt(row, 0)

	if isLegacySectionProvider(first) {
		p.state = sectionAwaitingGrits
		p.provider = first
		p.columns = nil
		return nil
	}

	if first == "" {
		if p.state != sectionIdle && rowMentionsGritToken(row) {
			p.columns = p.columns[:0]
			for i, cell := range row {
				if v := strings.TrimSpace(cell); v != "" {
					p.columns = append(p.columns, gritColumn{Index: i, Header: v})
				}
			}
			p.state = sectionActive
		}
		return nil
	}

	if p.state != sectionActive || !isPlainNumber(first) {
		return nil
	}
	thickness, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return nil
	}

	var observations []grindingObservation
	for _, col := range p.columns {
		raw := cellAt(row, col.Index)
		if !isPlainNumber(raw) {
			continue
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		observations = append(observations, grindingObservation{
			RowNumber: rowNumber,
			Provider:  p.provider,
			Grit:      legacyGritFor(col.Header),
			Thickness: thickness,
			Price:     price,
			WithSB:    legacyHeaderHasSB(col.Header),
		})
	}
	return observations
}

// parseGrindingLegacySheet runs the section parser over a whole sheet.
func parseGrindingLegacySheet(rows [][]string) []grindingObservation {
	parser := &grindingSectionParser{}
	var observations []grindingObservation
	for i, row := range rows {
		observations = append(observations, parser.feed(i+1, row)...)
	}
	return observations
}

func isLegacySectionProvider(s string) bool {
	for _, p := range legacySectionProviderSet {
		if s == p {
			return true
		}
	}
	return false
}

// rowMentionsGritToken reports whether the row looks like a grit header row.
func rowMentionsGritToken(row []string) bool {
	for _, cell := range row {
		for _, token := range legacyGritHeaderTokens {
			if strings.Contains(cell, token) {
				return true
			}
		}
	}
	return false
}

// legacyGritFor maps a legacy column header to a grit range. Coarser checks
// run later so combined headers ("K320/K400 +SB") resolve to the finer
// range. Headers naming no K-grit (plain SB columns) map to nil.
func legacyGritFor(header string) *string {
	switch {
	case strings.Contains(header, "K320") || strings.Contains(header, "K400"):
		return utils.ToPtr(models.GritFine)
	case strings.Contains(header, "K240") || strings.Contains(header, "K180"):
		return utils.ToPtr(models.GritMedium)
	case strings.Contains(header, "K80") || strings.Contains(header, "K120"):
		return utils.ToPtr(models.GritCoarse)
	default:
		return nil
	}
}

// legacyHeaderHasSB reports whether a legacy column header marks an SB
// (scotch-brite) price, either combined with a grit ("K320/K400 +SB") or as
// the standalone SB column.
func legacyHeaderHasSB(header string) bool {
	return strings.Contains(header, "+SB") || header == legacyPlainSBColumnHeader
}

// parseFilmExportSheet reads an export-shaped film sheet: Typ folii,
// Grubosc (mm), Cena PLN/kg. Unknown film types skip the row.
func parseFilmExportSheet(rows [][]string) *filmExportResult {
	result := &filmExportResult{}
	if len(rows) == 0 {
		result.MissingTypeColumn = true
		return result
	}

	headers := trimmedHeaders(rows[0])
	result.Headers = headers

	typeIdx := headerIndex(headers, filmTypeColumnNames)
	if typeIdx < 0 {
		result.MissingTypeColumn = true
		return result
	}
	thicknessIdx := headerIndex(headers, exportThicknessColumns)
	priceIdx := headerIndex(headers, exportPriceColumns)

	for i := 1; i < len(rows); i++ {
		rowNumber := i + 1
		row := rows[i]

		rawType := cellAt(row, typeIdx)
		if rawType == "" {
			continue
		}
		filmType := models.MatchFilmType(rawType)
		if filmType == "" {
			continue
		}
		price := cellAt(row, priceIdx)
		if price == "" {
			continue
		}

		thickness, err := parseDimensionCell(cellAt(row, thicknessIdx))
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa grubosc: %v", err)})
			continue
		}
		priceValue, err := parseCellFloat(price)
		if err != nil {
			result.Errors = append(result.Errors, rowError{Row: rowNumber, Message: fmt.Sprintf("nieprawidlowa cena: %v", err)})
			continue
		}

		result.Observations = append(result.Observations, filmObservation{
			RowNumber: rowNumber,
			FilmType:  filmType,
			Thickness: thickness,
			Price:     priceValue,
		})
	}
	return result
}

// parseFilmLegacySheet reads the legacy "DANE FOLIA" layout: a header row
// naming film brands, thickness in the first column, one price per brand
// column. Cells that do not parse are skipped silently, matching how loose
// the legacy workbooks are.
func parseFilmLegacySheet(rows [][]string) *filmLegacyResult {
	result := &filmLegacyResult{}

	headerRow := -1
	for i, row := range rows {
		for _, cell := range row {
			if containsAnyToken(cell, legacyFilmHeaderTokens) {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return result
	}
	result.HeaderFound = true

	var columns []struct {
		Index    int
		FilmType string
	}
	for i, cell := range rows[headerRow] {
		if ft, ok := legacyFilmNames[strings.TrimSpace(cell)]; ok {
			columns = append(columns, struct {
				Index    int
				FilmType string
			}{Index: i, FilmType: ft})
		}
	}

	for i := headerRow + 1; i < len(rows); i++ {
		rowNumber := i + 1
		row := rows[i]

		rawThickness := cellAt(row, 0)
		if rawThickness == "" {
			continue
		}
		thickness, err := parseCellFloat(rawThickness)
		if err != nil {
			continue
		}

		for _, col := range columns {
			raw := cellAt(row, col.Index)
			if raw == "" {
				continue
			}
			price, err := parseCellFloat(raw)
			if err != nil {
				continue
			}
			result.Observations = append(result.Observations, filmObservation{
				RowNumber: rowNumber,
				FilmType:  col.FilmType,
				Thickness: thickness,
				Price:     price,
			})
		}
	}
	return result
}

func containsAnyToken(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
