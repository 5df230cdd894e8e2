package tests

import (
	"bytes"
	"testing"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/app/services"
	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	testingutil "github.com/blachmet/cennik/testing"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newImportFlow(testDB *testingutil.TestDB) businessflow.ImportFlow {
	return businessflow.NewImportFlow(
		repository.NewMaterialRepository(testDB.DB),
		repository.NewBasePriceRepository(testDB.DB),
		repository.NewGrindingPriceRepository(testDB.DB),
		repository.NewFilmPriceRepository(testDB.DB),
		repository.NewImportExportAuditRepository(testDB.DB),
		services.NewMemoryImportCache(time.Hour),
		testDB.DB,
	)
}

func newExportFlow(testDB *testingutil.TestDB) businessflow.ExportFlow {
	return businessflow.NewExportFlow(
		repository.NewBasePriceRepository(testDB.DB),
		repository.NewGrindingPriceRepository(testDB.DB),
		repository.NewFilmPriceRepository(testDB.DB),
		repository.NewThicknessModifierRepository(testDB.DB),
		repository.NewWidthModifierRepository(testDB.DB),
		repository.NewImportExportAuditRepository(testDB.DB),
	)
}

// buildWorkbook renders sheets of string rows into xlsx bytes.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Reader {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, wb.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := wb.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestImportFlowAnalyze(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newImportFlow(testDB)
		ctx := testingutil.CreateTestContext()

		material, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)
		_, err = fixtures.CreateTestBasePrice(material.ID, models.Finish2B, 1.5, 1250, 9.00)
		require.NoError(t, err)

		t.Run("ClassifiesRows", func(t *testing.T) {
			reader := buildWorkbook(t, map[string][][]interface{}{
				"Ceny bazowe": {
					{"Gatunek", "Wykoncznie", "Grubosc (mm)", "Szerokosc (mm)", "Cena PLN/kg"},
					{"1.4301", models.Finish2B, 1.0, 1250, 8.20},  // unchanged
					{"1.4301", models.Finish2B, 1.5, 1250, 9.35},  // updated
					{"1.4301", models.Finish2B, 2.0, 1500, 10.00}, // added variant
					{"1.4404", models.Finish2B, 1.0, 1250, 11.20}, // added, unseen grade
				},
			})

			resp, err := flow.AnalyzeReader(ctx, reader, "cennik.xlsx")
			require.NoError(t, err)

			assert.NotEmpty(t, resp.ImportID)
			assert.Equal(t, 1, resp.Unchanged)
			assert.Equal(t, 1, resp.Updated)
			assert.Equal(t, 2, resp.Added)
			assert.Equal(t, 0, resp.ErrorRows)
			assert.Equal(t, 4, resp.TotalRows)

			// Analyze writes nothing: the unseen grade must not exist yet.
			materialRepo := repository.NewMaterialRepository(testDB.DB)
			missing, err := materialRepo.ByGrade(ctx, "1.4404")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("WithinToleranceIsUnchanged", func(t *testing.T) {
			reader := buildWorkbook(t, map[string][][]interface{}{
				"Ceny bazowe": {
					{"Gatunek", "Wykoncznie", "Grubosc (mm)", "Szerokosc (mm)", "Cena PLN/kg"},
					{"1.4301", models.Finish2B, 1.0, 1250, 8.2004},
				},
			})

			resp, err := flow.AnalyzeReader(ctx, reader, "cennik.xlsx")
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Unchanged)
			assert.Equal(t, 0, resp.Updated)
		})

		t.Run("BadRowsBecomeErrors", func(t *testing.T) {
			reader := buildWorkbook(t, map[string][][]interface{}{
				"Ceny bazowe": {
					{"Gatunek", "Wykoncznie", "Grubosc (mm)", "Szerokosc (mm)", "Cena PLN/kg"},
					{"1.4301", models.Finish2B, "gruba", 1250, 8.20},
				},
			})

			resp, err := flow.AnalyzeReader(ctx, reader, "cennik.xlsx")
			require.NoError(t, err)
			assert.Equal(t, 1, resp.ErrorRows)
			assert.NotEmpty(t, resp.Errors)
		})

		t.Run("UnsupportedExtensionRejected", func(t *testing.T) {
			_, err := flow.AnalyzeReader(ctx, bytes.NewReader([]byte("gatunek;cena")), "cennik.csv")
			require.Error(t, err)
			assert.True(t, businessflow.IsUnsupportedFileType(err))
		})
	})
}

func TestImportFlowApply(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newImportFlow(testDB)
		materialRepo := repository.NewMaterialRepository(testDB.DB)
		baseRepo := repository.NewBasePriceRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("203.0.113.7", "cennik-tests")
		metadata.SetActor("j.nowak")

		_, priced, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)

		analyzeFixture := func(t *testing.T) string {
			reader := buildWorkbook(t, map[string][][]interface{}{
				"Ceny bazowe": {
					{"Gatunek", "Wykoncznie", "Grubosc (mm)", "Szerokosc (mm)", "Cena PLN/kg"},
					{"1.4301", models.Finish2B, 1.0, 1250, 8.61},
					{"1.4404", models.Finish2B, 1.0, 1250, 11.20},
				},
			})
			resp, err := flow.AnalyzeReader(ctx, reader, "cennik.xlsx")
			require.NoError(t, err)
			return resp.ImportID
		}

		t.Run("RequiresConfirmation", func(t *testing.T) {
			importID := analyzeFixture(t)
			_, err := flow.ApplyImport(ctx, importID, businessflow.MergeModeFullSync, false, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsImportNotConfirmed(err))
		})

		t.Run("UnknownMergeModeRejected", func(t *testing.T) {
			_, err := flow.ApplyImport(ctx, "whatever", "replace_all", true, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidMergeMode(err))
		})

		t.Run("UpdateExistingSkipsAdds", func(t *testing.T) {
			importID := analyzeFixture(t)
			resp, err := flow.ApplyImport(ctx, importID, businessflow.MergeModeUpdateExisting, true, metadata)
			require.NoError(t, err)

			assert.True(t, resp.Success)
			assert.Equal(t, 1, resp.RecordsUpdated)
			assert.Equal(t, 0, resp.RecordsAdded)
			assert.Equal(t, 1, resp.RecordsSkipped)

			row, err := baseRepo.ByID(ctx, priced.ID)
			require.NoError(t, err)
			assert.Equal(t, 8.61, row.PricePLNPerKg)

			missing, err := materialRepo.ByGrade(ctx, "1.4404")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("FullSyncCreatesMaterialOnFirstReference", func(t *testing.T) {
			importID := analyzeFixture(t)
			resp, err := flow.ApplyImport(ctx, importID, businessflow.MergeModeFullSync, true, metadata)
			require.NoError(t, err)

			assert.True(t, resp.Success)
			assert.Equal(t, 1, resp.RecordsAdded)

			created, err := materialRepo.ByGrade(ctx, "1.4404")
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, models.MaterialCategoryStainless, created.Category)

			variant, err := baseRepo.LatestFor(ctx, created.ID, models.Finish2B, 1.0, 1250)
			require.NoError(t, err)
			require.NotNil(t, variant)
			assert.Equal(t, 11.20, variant.PricePLNPerKg)
			assert.Equal(t, 2500.0, variant.Length)
		})

		t.Run("ApplyConsumesPendingImport", func(t *testing.T) {
			importID := analyzeFixture(t)
			_, err := flow.ApplyImport(ctx, importID, businessflow.MergeModeAddNew, true, metadata)
			require.NoError(t, err)

			_, err = flow.ApplyImport(ctx, importID, businessflow.MergeModeAddNew, true, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsImportNotFound(err))
		})

		t.Run("HistoryRecordsRuns", func(t *testing.T) {
			resp, err := flow.History(ctx, utils.ToPtr(models.OperationImport), 20, 0)
			require.NoError(t, err)
			require.NotEmpty(t, resp.Items)
			latest := resp.Items[0]
			assert.Equal(t, models.OperationImport, latest.OperationType)
			assert.Equal(t, "cennik.xlsx", latest.FileName)
			assert.Equal(t, "j.nowak", latest.User)
		})
	})
}

func TestImportFlowCancel(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newImportFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)

		reader := buildWorkbook(t, map[string][][]interface{}{
			"Ceny bazowe": {
				{"Gatunek", "Wykoncznie", "Grubosc (mm)", "Szerokosc (mm)", "Cena PLN/kg"},
				{"1.4301", models.Finish2B, 1.0, 1250, 9.99},
			},
		})
		resp, err := flow.AnalyzeReader(ctx, reader, "cennik.xlsx")
		require.NoError(t, err)

		require.NoError(t, flow.CancelImport(ctx, resp.ImportID))

		err = flow.CancelImport(ctx, resp.ImportID)
		require.Error(t, err)
		assert.True(t, businessflow.IsImportNotFound(err))

		_, err = flow.PreviewImport(ctx, resp.ImportID, 1, 50, nil, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsImportNotFound(err))
	})
}

func TestImportFlowGrindingAndFilmSheets(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newImportFlow(testDB)
		grindingRepo := repository.NewGrindingPriceRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("203.0.113.7", "cennik-tests")

		existing, err := fixtures.CreateTestGrindingPrice(models.ProviderCAMU, utils.ToPtr(models.GritFine), 1.0, 1.25, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestFilmPrice(models.FilmZwykla, 1.0, 0.35)
		require.NoError(t, err)

		reader := buildWorkbook(t, map[string][][]interface{}{
			"Cennik szlifu": {
				{"Dostawca", "Granulacja", "Grubosc (mm)", "Cena PLN/kg", "Z SB", "Wariant szerokosci"},
				{models.ProviderCAMU, models.GritFine, 1.0, 1.40, "", ""},
				{models.ProviderBORYS, "", 1.0, 1.20, "", models.WidthVariantNarrow},
			},
			"Cennik folii": {
				{"Typ folii", "Grubosc (mm)", "Cena PLN/kg"},
				{models.FilmZwykla, 1.0, 0.35},
				{models.FilmFiber, 1.0, 0.55},
			},
		})

		analysis, err := flow.AnalyzeReader(ctx, reader, "cennik.xlsx")
		require.NoError(t, err)
		assert.Equal(t, 2, analysis.Added)
		assert.Equal(t, 1, analysis.Updated)
		assert.Equal(t, 1, analysis.Unchanged)

		resp, err := flow.ApplyImport(ctx, analysis.ImportID, businessflow.MergeModeFullSync, true, metadata)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.GrindingPricesImported)
		assert.Equal(t, 1, resp.FilmPricesImported)

		updated, err := grindingRepo.ByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, 1.40, updated.PricePLNPerKg)

		borys, err := grindingRepo.FindCell(ctx, models.ProviderBORYS, 1.0, nil, utils.ToPtr(models.WidthVariantNarrow), false)
		require.NoError(t, err)
		require.NotNil(t, borys)
		assert.Equal(t, 1.20, borys.PricePLNPerKg)
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		importFlow := newImportFlow(testDB)
		exportFlow := newExportFlow(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("203.0.113.7", "cennik-tests")

		_, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)
		_, err = fixtures.CreateTestGrindingPrice(models.ProviderCAMU, utils.ToPtr(models.GritFine), 1.0, 1.25, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestFilmPrice(models.FilmZwykla, 1.0, 0.35)
		require.NoError(t, err)

		file, err := exportFlow.ExportPrices(ctx, &dto.ExportPricesRequest{
			Type:   models.DataTypeAll,
			Format: models.FileTypeXLSX,
		}, metadata)
		require.NoError(t, err)
		require.NotEmpty(t, file.Content)

		// Re-importing an unmodified export must find nothing to do.
		resp, err := importFlow.AnalyzeReader(ctx, bytes.NewReader(file.Content), file.Filename)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Added)
		assert.Equal(t, 0, resp.Updated)
		assert.Equal(t, 0, resp.ErrorRows)
		assert.Equal(t, 3, resp.Unchanged)
	})
}
