package businessflow

import (
	"testing"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeAllows(t *testing.T) {
	tests := []struct {
		mode     string
		action   string
		expected bool
	}{
		{MergeModeUpdateExisting, ImportActionUpdate, true},
		{MergeModeUpdateExisting, ImportActionAdd, false},
		{MergeModeAddNew, ImportActionAdd, true},
		{MergeModeAddNew, ImportActionUpdate, false},
		{MergeModeFullSync, ImportActionUpdate, true},
		{MergeModeFullSync, ImportActionAdd, true},
		{MergeModeFullSync, "remove", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.action, func(t *testing.T) {
			assert.Equal(t, tt.expected, modeAllows(tt.mode, tt.action))
		})
	}
}

func TestClassifyBase(t *testing.T) {
	obs := baseObservation{RowNumber: 2, Grade: "1.4301", Finish: "2B", Thickness: 1.0, Width: 1250, Price: 8.20}
	material := &models.Material{ID: 3, Grade: "1.4301", Name: "Stal nierdzewna 1.4301"}

	t.Run("unknown grade becomes an add that creates the material", func(t *testing.T) {
		analysis := &ImportAnalysis{}
		unseen := baseObservation{RowNumber: 4, Grade: "S355JR", Finish: "2B", Thickness: 2.0, Width: 1500, Price: 4.10}

		classifyBase(analysis, unseen, nil, nil)

		assert.Equal(t, 1, analysis.Added)
		require.Len(t, analysis.Items, 1)
		assert.Equal(t, ChangeItemAdded, analysis.Items[0].ChangeType)
		assert.Nil(t, analysis.Items[0].MaterialName)

		require.Len(t, analysis.PendingChanges, 1)
		change := analysis.PendingChanges[0]
		assert.Equal(t, ImportActionAdd, change.Action)
		assert.Equal(t, "S355JR", change.Grade)
		assert.Zero(t, change.MaterialID)
	})

	t.Run("known material without a price row is an add with material id", func(t *testing.T) {
		analysis := &ImportAnalysis{}

		classifyBase(analysis, obs, material, nil)

		assert.Equal(t, 1, analysis.Added)
		require.Len(t, analysis.Items, 1)
		require.NotNil(t, analysis.Items[0].MaterialName)
		assert.Equal(t, "Stal nierdzewna 1.4301", *analysis.Items[0].MaterialName)

		require.Len(t, analysis.PendingChanges, 1)
		assert.Equal(t, uint(3), analysis.PendingChanges[0].MaterialID)
		assert.Empty(t, analysis.PendingChanges[0].Grade)
	})

	t.Run("price within tolerance is itemized as unchanged", func(t *testing.T) {
		analysis := &ImportAnalysis{}
		existing := &models.BasePrice{ID: 7, PricePLNPerKg: 8.2004}

		classifyBase(analysis, obs, material, existing)

		assert.Equal(t, 1, analysis.Unchanged)
		assert.Zero(t, analysis.Updated)
		require.Len(t, analysis.Items, 1)
		assert.Equal(t, ChangeItemUnchanged, analysis.Items[0].ChangeType)
		assert.Empty(t, analysis.PendingChanges)
	})

	t.Run("price drift becomes an update", func(t *testing.T) {
		analysis := &ImportAnalysis{}
		existing := &models.BasePrice{ID: 7, PricePLNPerKg: 7.90}

		classifyBase(analysis, obs, material, existing)

		assert.Equal(t, 1, analysis.Updated)
		require.Len(t, analysis.Items, 1)
		item := analysis.Items[0]
		assert.Equal(t, ChangeItemUpdated, item.ChangeType)
		require.NotNil(t, item.CurrentPrice)
		assert.InDelta(t, 7.90, *item.CurrentPrice, 1e-9)
		require.NotNil(t, item.PriceChange)
		assert.InDelta(t, 0.30, *item.PriceChange, 1e-9)

		require.Len(t, analysis.PendingChanges, 1)
		change := analysis.PendingChanges[0]
		assert.Equal(t, ImportActionUpdate, change.Action)
		assert.Equal(t, uint(7), change.ID)
		assert.InDelta(t, 8.20, change.Price, 1e-9)
	})
}

func TestClassifyGrinding(t *testing.T) {
	obs := grindingObservation{
		RowNumber:    3,
		Provider:     models.ProviderCAMU,
		Grit:         utils.ToPtr(models.GritFine),
		Thickness:    1.5,
		Price:        2.50,
		WidthVariant: utils.ToPtr(models.WidthVariantNarrow),
	}

	t.Run("unchanged cells are counted without items", func(t *testing.T) {
		analysis := &ImportAnalysis{}
		existing := &models.GrindingPrice{ID: 11, PricePLNPerKg: 2.5002}

		classifyGrinding(analysis, obs, existing)

		assert.Equal(t, 1, analysis.Unchanged)
		assert.Empty(t, analysis.Items)
		assert.Empty(t, analysis.PendingChanges)
	})

	t.Run("changed cell becomes an update", func(t *testing.T) {
		analysis := &ImportAnalysis{}
		existing := &models.GrindingPrice{ID: 11, PricePLNPerKg: 2.20}

		classifyGrinding(analysis, obs, existing)

		assert.Equal(t, 1, analysis.Updated)
		require.Len(t, analysis.Items, 1)
		item := analysis.Items[0]
		assert.Equal(t, ImportDataGrinding, item.DataType)
		require.NotNil(t, item.WithSB)
		assert.False(t, *item.WithSB)

		require.Len(t, analysis.PendingChanges, 1)
		assert.Equal(t, uint(11), analysis.PendingChanges[0].ID)
	})

	t.Run("new cell becomes an add carrying the full key", func(t *testing.T) {
		analysis := &ImportAnalysis{}

		classifyGrinding(analysis, obs, nil)

		assert.Equal(t, 1, analysis.Added)
		require.Len(t, analysis.PendingChanges, 1)
		change := analysis.PendingChanges[0]
		assert.Equal(t, models.ProviderCAMU, change.Provider)
		require.NotNil(t, change.Grit)
		assert.Equal(t, models.GritFine, *change.Grit)
		require.NotNil(t, change.WidthVariant)
		assert.Equal(t, models.WidthVariantNarrow, *change.WidthVariant)
		assert.False(t, change.WithSB)
	})
}

func TestClassifyFilm(t *testing.T) {
	obs := filmObservation{RowNumber: 2, FilmType: models.FilmZwykla, Thickness: 1.0, Price: 0.30}

	t.Run("unchanged counted only", func(t *testing.T) {
		analysis := &ImportAnalysis{}

		classifyFilm(analysis, obs, &models.FilmPrice{ID: 5, PricePLNPerKg: 0.3001})

		assert.Equal(t, 1, analysis.Unchanged)
		assert.Empty(t, analysis.Items)
	})

	t.Run("update and add", func(t *testing.T) {
		analysis := &ImportAnalysis{}

		classifyFilm(analysis, obs, &models.FilmPrice{ID: 5, PricePLNPerKg: 0.25})
		classifyFilm(analysis, obs, nil)

		assert.Equal(t, 1, analysis.Updated)
		assert.Equal(t, 1, analysis.Added)
		require.Len(t, analysis.PendingChanges, 2)
		assert.Equal(t, ImportActionUpdate, analysis.PendingChanges[0].Action)
		assert.Equal(t, models.FilmZwykla, analysis.PendingChanges[1].FilmType)
	})
}

func TestPreviewResponse(t *testing.T) {
	analysis := &ImportAnalysis{
		ImportID: "imp-1",
		Filename: "cennik.xlsx",
		Items: []dto.ImportChangeItemDTO{
			{RowNumber: 2, ChangeType: ChangeItemAdded, DataType: ImportDataBasePrice},
			{RowNumber: 3, ChangeType: ChangeItemUpdated, DataType: ImportDataGrinding},
			{RowNumber: 4, ChangeType: ChangeItemError, DataType: ImportDataBasePrice},
		},
		TotalRows: 3,
		Added:     1,
		Updated:   1,
		ErrorRows: 1,
	}

	t.Run("defaults", func(t *testing.T) {
		resp := previewResponse(analysis, 1, 50, nil, nil)

		assert.Equal(t, "imp-1", resp.ImportID)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 50, resp.PerPage)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Len(t, resp.Items, 3)
	})

	t.Run("clamps page and page size", func(t *testing.T) {
		resp := previewResponse(analysis, 0, 5, nil, nil)

		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 50, resp.PerPage)

		resp = previewResponse(analysis, 1, 500, nil, nil)
		assert.Equal(t, 50, resp.PerPage)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		resp := previewResponse(analysis, 2, 10, nil, nil)

		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 1, resp.TotalPages)
		assert.NotNil(t, resp.Items)
		assert.Empty(t, resp.Items)
	})

	t.Run("filters by change type", func(t *testing.T) {
		resp := previewResponse(analysis, 1, 50, utils.ToPtr(ChangeItemAdded), nil)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Items[0].RowNumber)
	})

	t.Run("filters by data type", func(t *testing.T) {
		resp := previewResponse(analysis, 1, 50, nil, utils.ToPtr(ImportDataGrinding))

		require.Len(t, resp.Items, 1)
		assert.Equal(t, 3, resp.Items[0].RowNumber)
	})

	t.Run("combined filters can match nothing", func(t *testing.T) {
		resp := previewResponse(analysis, 1, 50, utils.ToPtr(ChangeItemAdded), utils.ToPtr(ImportDataGrinding))

		assert.Empty(t, resp.Items)
		assert.Zero(t, resp.TotalPages)
	})

	t.Run("summary counters are whole-analysis", func(t *testing.T) {
		resp := previewResponse(analysis, 1, 50, utils.ToPtr(ChangeItemAdded), nil)

		assert.Equal(t, 3, resp.TotalRows)
		assert.Equal(t, 1, resp.Added)
		assert.Equal(t, 1, resp.Updated)
		assert.Equal(t, 1, resp.ErrorRows)
	})
}

func TestIsSpreadsheetFile(t *testing.T) {
	assert.True(t, isSpreadsheetFile("cennik.xlsx"))
	assert.True(t, isSpreadsheetFile("CENNIK.XLSX"))
	assert.True(t, isSpreadsheetFile("stary_cennik.xls"))
	assert.False(t, isSpreadsheetFile("ceny.csv"))
	assert.False(t, isSpreadsheetFile("notatki.txt"))
	assert.False(t, isSpreadsheetFile("bez_rozszerzenia"))
}

func TestJoinFirst(t *testing.T) {
	assert.Equal(t, "a, b", joinFirst([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "a, b, c", joinFirst([]string{"a", "b", "c"}, 10))
	assert.Equal(t, "", joinFirst(nil, 5))
}

func TestToImportExportHistoryItem(t *testing.T) {
	createdAt := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)

	t.Run("full row", func(t *testing.T) {
		row := &models.ImportExportAudit{
			ID:             12,
			OperationType:  models.OperationImport,
			FileName:       "cennik.xlsx",
			FileType:       models.FileTypeXLSX,
			DataType:       models.DataTypeAll,
			RecordsCount:   40,
			RecordsAdded:   5,
			RecordsUpdated: 30,
			RecordsSkipped: 5,
			UserID:         utils.ToPtr("jan.kowalski"),
			Status:         models.AuditStatusSuccess,
			CreatedAt:      createdAt,
		}

		item := toImportExportHistoryItem(row)

		assert.Equal(t, uint(12), item.ID)
		assert.Equal(t, "jan.kowalski", item.User)
		assert.Equal(t, "2025-07-15T09:00:00Z", item.CreatedAt)
		assert.Equal(t, 30, item.RecordsUpdated)
	})

	t.Run("missing user falls back to unknown", func(t *testing.T) {
		row := &models.ImportExportAudit{ID: 13, OperationType: models.OperationExport, CreatedAt: createdAt}

		item := toImportExportHistoryItem(row)

		assert.Equal(t, "unknown", item.User)
	})
}
