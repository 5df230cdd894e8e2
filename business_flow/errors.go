// Package businessflow contains the core business logic and use cases for catalog and pricing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Material-related errors
	ErrMaterialNotFound      = errors.New("material not found")
	ErrMaterialInactive      = errors.New("material is inactive")
	ErrMaterialAlreadyExists = errors.New("material already exists")
	ErrMaterialGroupNotFound = errors.New("material group not found")
	ErrGradeRequired         = errors.New("material grade is required")

	// Price lookup errors
	ErrBasePriceNotFound     = errors.New("base price not found for variant")
	ErrVariantDisabled       = errors.New("variant is disabled (price is zero)")
	ErrGrindingPriceNotFound = errors.New("grinding price not found")
	ErrFilmPriceNotFound     = errors.New("film price not found")
	ErrExchangeRateNotFound  = errors.New("exchange rate not found")
	ErrUnknownProvider       = errors.New("unknown grinding provider")
	ErrUnknownFilmType       = errors.New("unknown film type")
	ErrUnknownGrit           = errors.New("unknown grinding grit")

	// Calculation input errors
	ErrThicknessOutOfRange  = errors.New("thickness must be positive")
	ErrWidthOutOfRange      = errors.New("width must be positive")
	ErrLengthOutOfRange     = errors.New("length must be positive")
	ErrProcessingNotAllowed = errors.New("processing is not allowed for this configuration")

	// Bulk mutation errors
	ErrInvalidChangeType  = errors.New("change type must be percentage or absolute")
	ErrInvalidChangeValue = errors.New("percentage change cannot reduce prices below -100%")
	ErrInvalidRounding    = errors.New("rounding precision must be between 0 and 4 decimal places")
	ErrInvalidFilter      = errors.New("invalid bulk filter")
	ErrEmptySelection     = errors.New("no price rows match the filter")

	// Import errors
	ErrImportNotFound      = errors.New("import not found or expired")
	ErrImportNotConfirmed  = errors.New("import must be confirmed before applying")
	ErrInvalidMergeMode    = errors.New("merge mode must be update_existing, add_new or full_sync")
	ErrWorkbookUnreadable  = errors.New("workbook cannot be read")
	ErrWorkbookEmpty       = errors.New("workbook contains no recognizable price sheets")
	ErrUnsupportedFileType = errors.New("only .xlsx and .xls files are accepted")

	// Export errors
	ErrInvalidExportFormat = errors.New("export format must be xlsx or csv")
	ErrInvalidDataType     = errors.New("unknown export data type")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 200")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")

	ErrCacheNotAvailable = errors.New("cache not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsMaterialNotFound(err error) bool {
	return errors.Is(err, ErrMaterialNotFound)
}

func IsMaterialInactive(err error) bool {
	return errors.Is(err, ErrMaterialInactive)
}

func IsMaterialAlreadyExists(err error) bool {
	return errors.Is(err, ErrMaterialAlreadyExists)
}

func IsMaterialGroupNotFound(err error) bool {
	return errors.Is(err, ErrMaterialGroupNotFound)
}

func IsGradeRequired(err error) bool {
	return errors.Is(err, ErrGradeRequired)
}

func IsBasePriceNotFound(err error) bool {
	return errors.Is(err, ErrBasePriceNotFound)
}

func IsVariantDisabled(err error) bool {
	return errors.Is(err, ErrVariantDisabled)
}

func IsGrindingPriceNotFound(err error) bool {
	return errors.Is(err, ErrGrindingPriceNotFound)
}

func IsFilmPriceNotFound(err error) bool {
	return errors.Is(err, ErrFilmPriceNotFound)
}

func IsExchangeRateNotFound(err error) bool {
	return errors.Is(err, ErrExchangeRateNotFound)
}

func IsUnknownProvider(err error) bool {
	return errors.Is(err, ErrUnknownProvider)
}

func IsUnknownFilmType(err error) bool {
	return errors.Is(err, ErrUnknownFilmType)
}

func IsUnknownGrit(err error) bool {
	return errors.Is(err, ErrUnknownGrit)
}

func IsThicknessOutOfRange(err error) bool {
	return errors.Is(err, ErrThicknessOutOfRange)
}

func IsWidthOutOfRange(err error) bool {
	return errors.Is(err, ErrWidthOutOfRange)
}

func IsLengthOutOfRange(err error) bool {
	return errors.Is(err, ErrLengthOutOfRange)
}

func IsProcessingNotAllowed(err error) bool {
	return errors.Is(err, ErrProcessingNotAllowed)
}

func IsInvalidChangeType(err error) bool {
	return errors.Is(err, ErrInvalidChangeType)
}

func IsInvalidChangeValue(err error) bool {
	return errors.Is(err, ErrInvalidChangeValue)
}

func IsInvalidRounding(err error) bool {
	return errors.Is(err, ErrInvalidRounding)
}

func IsInvalidFilter(err error) bool {
	return errors.Is(err, ErrInvalidFilter)
}

func IsEmptySelection(err error) bool {
	return errors.Is(err, ErrEmptySelection)
}

func IsImportNotFound(err error) bool {
	return errors.Is(err, ErrImportNotFound)
}

func IsImportNotConfirmed(err error) bool {
	return errors.Is(err, ErrImportNotConfirmed)
}

func IsInvalidMergeMode(err error) bool {
	return errors.Is(err, ErrInvalidMergeMode)
}

func IsWorkbookUnreadable(err error) bool {
	return errors.Is(err, ErrWorkbookUnreadable)
}

func IsWorkbookEmpty(err error) bool {
	return errors.Is(err, ErrWorkbookEmpty)
}

func IsUnsupportedFileType(err error) bool {
	return errors.Is(err, ErrUnsupportedFileType)
}

func IsInvalidExportFormat(err error) bool {
	return errors.Is(err, ErrInvalidExportFormat)
}

func IsInvalidDataType(err error) bool {
	return errors.Is(err, ErrInvalidDataType)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
