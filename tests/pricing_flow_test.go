package tests

import (
	"testing"

	"github.com/blachmet/cennik/app/dto"
	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	testingutil "github.com/blachmet/cennik/testing"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingFlow(testDB *testingutil.TestDB) businessflow.PricingFlow {
	return businessflow.NewPricingFlow(
		repository.NewMaterialRepository(testDB.DB),
		repository.NewBasePriceRepository(testDB.DB),
		repository.NewGrindingPriceRepository(testDB.DB),
		repository.NewFilmPriceRepository(testDB.DB),
		repository.NewExchangeRateRepository(testDB.DB),
		repository.NewProcessingOptionRepository(testDB.DB),
	)
}

func TestPricingFlowCalculate(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		material, basePrice, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)
		_ = basePrice

		t.Run("BareSheetWithDefaultRate", func(t *testing.T) {
			// No exchange rate row exists yet, so pricing falls back to the
			// built-in EUR/PLN rate.
			resp, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:         "1.4301",
				SurfaceFinish: models.Finish2B,
				Thickness:     1.0,
				Width:         1250,
				Length:        2500,
			})
			require.NoError(t, err)

			assert.Equal(t, 8.20, resp.BasePricePLNKg)
			assert.Zero(t, resp.FilmCostPLNKg)
			assert.Zero(t, resp.GrindingCostPLNKg)
			assert.Equal(t, 8.20, resp.TotalPricePLNKg)
			assert.Equal(t, models.DefaultEURPLNRate, resp.ExchangeRate)
			assert.InDelta(t, 8.20/models.DefaultEURPLNRate, resp.TotalPriceEURKg, 0.0001)

			// 7.9 g/cm³ x (0.1 x 125 x 250) cm³ = 24.6875 kg
			assert.InDelta(t, 24.688, resp.WeightKg, 0.001)
			assert.InDelta(t, 3.125, resp.AreaM2, 0.0001)
			assert.Equal(t, "1.4301", resp.Configuration.Material)
			assert.False(t, resp.GrindingApplied)
			assert.False(t, resp.FilmApplied)
		})

		t.Run("ResolvesByMaterialID", func(t *testing.T) {
			resp, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				MaterialID:    &material.ID,
				SurfaceFinish: models.Finish2B,
				Thickness:     1.0,
				Width:         1250,
				Length:        2500,
			})
			require.NoError(t, err)
			assert.Equal(t, 8.20, resp.BasePricePLNKg)
		})

		t.Run("BasePriceNotFound", func(t *testing.T) {
			_, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:         "1.4301",
				SurfaceFinish: models.FinishBA,
				Thickness:     3.0,
				Width:         2000,
				Length:        4000,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsBasePriceNotFound(err))
		})

		t.Run("GrindingAndFilmApplied", func(t *testing.T) {
			_, err := fixtures.CreateTestGrindingPrice(models.ProviderCAMU, utils.ToPtr(models.GritFine), 1.0, 1.25, false)
			require.NoError(t, err)
			_, err = fixtures.CreateTestFilmPrice(models.FilmZwykla, 1.0, 0.35)
			require.NoError(t, err)

			resp, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:            "1.4301",
				SurfaceFinish:    models.Finish2B,
				Thickness:        1.0,
				Width:            1250,
				Length:           2500,
				FilmType:         models.FilmZwykla,
				GrindingProvider: models.ProviderCAMU,
				GrindingGrit:     models.GritFine,
			})
			require.NoError(t, err)

			assert.True(t, resp.GrindingApplied)
			assert.True(t, resp.FilmApplied)
			assert.Equal(t, 1.25, resp.GrindingCostPLNKg)
			assert.Equal(t, 0.35, resp.FilmCostPLNKg)
			assert.InDelta(t, 8.20+0.35+1.25, resp.TotalPricePLNKg, 0.0001)
			require.NotNil(t, resp.Configuration.GrindingProvider)
			assert.Equal(t, models.ProviderCAMU, *resp.Configuration.GrindingProvider)
		})

		t.Run("UnavailableGrindingPricesBareSheet", func(t *testing.T) {
			// A zero-priced cell blocks the combination; the calculator keeps
			// going and returns the bare-sheet price instead of failing.
			_, err := fixtures.CreateTestGrindingPrice(models.ProviderBABCIA, utils.ToPtr(models.GritMedium), 1.0, 0, false)
			require.NoError(t, err)

			resp, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:            "1.4301",
				SurfaceFinish:    models.Finish2B,
				Thickness:        1.0,
				Width:            1250,
				Length:           2500,
				GrindingProvider: models.ProviderBABCIA,
				GrindingGrit:     models.GritMedium,
			})
			require.NoError(t, err)

			assert.False(t, resp.GrindingApplied)
			assert.Zero(t, resp.GrindingCostPLNKg)
			assert.Equal(t, 8.20, resp.TotalPricePLNKg)
		})

		t.Run("CustomExchangeRateUsed", func(t *testing.T) {
			_, err := fixtures.CreateTestExchangeRate(4.50)
			require.NoError(t, err)

			resp, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:         "1.4301",
				SurfaceFinish: models.Finish2B,
				Thickness:     1.0,
				Width:         1250,
				Length:        2500,
			})
			require.NoError(t, err)
			assert.Equal(t, 4.50, resp.ExchangeRate)
			assert.InDelta(t, 8.20/4.50, resp.TotalPriceEURKg, 0.0001)
		})

		t.Run("UnknownProviderRejected", func(t *testing.T) {
			_, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:            "1.4301",
				SurfaceFinish:    models.Finish2B,
				Thickness:        1.0,
				Width:            1250,
				Length:           2500,
				GrindingProvider: "NIKT",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownProvider(err))
		})

		t.Run("MaterialNotFound", func(t *testing.T) {
			_, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
				Grade:         "9.9999",
				SurfaceFinish: models.Finish2B,
				Thickness:     1.0,
				Width:         1250,
				Length:        2500,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsMaterialNotFound(err))
		})
	})
}

func TestPricingFlowProcessingGate(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, _, err := fixtures.SeedPricedVariant("1.4016", models.MaterialCategoryStainless, models.FinishBA, 0.8, 1000, 9.60)
		require.NoError(t, err)
		_, err = fixtures.CreateTestProcessingOption("1.4016", models.FinishBA, false, true, "Szlif niedostępny dla BA")
		require.NoError(t, err)
		_, err = fixtures.CreateTestGrindingPrice(models.ProviderCOSTA, utils.ToPtr(models.GritCoarse), 0.8, 1.15, false)
		require.NoError(t, err)

		resp, err := flow.Calculate(ctx, &dto.CalculatePriceRequest{
			Grade:            "1.4016",
			SurfaceFinish:    models.FinishBA,
			Thickness:        0.8,
			Width:            1000,
			Length:           2000,
			GrindingProvider: models.ProviderCOSTA,
			GrindingGrit:     models.GritCoarse,
		})
		require.NoError(t, err)

		// Gate short-circuits: bare sheet is priced, the note explains why.
		assert.False(t, resp.GrindingApplied)
		assert.Equal(t, 9.60, resp.TotalPricePLNKg)
		require.NotNil(t, resp.Notes)
		assert.Equal(t, "Szlif niedostępny dla BA", *resp.Notes)
	})
}

func TestPricingFlowPriceTable(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)

		resp, err := flow.PriceTable(ctx, &dto.PriceTableRequest{Category: models.MaterialCategoryStainless})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		row := resp.Items[0]
		assert.Equal(t, "1.4301", row.Grade)
		assert.Equal(t, 8.20, row.PricePLNPerKg)
		assert.InDelta(t, 8.20/models.DefaultEURPLNRate, row.PriceEURPerKg, 0.0001)
	})
}

func TestPricingFlowExchangeRate(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		flow := newPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("DefaultWhenUnset", func(t *testing.T) {
			resp, err := flow.CurrentExchangeRate(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.DefaultEURPLNRate, resp.Rate)
			assert.True(t, resp.IsDefault)
		})

		t.Run("UpdateReplacesRate", func(t *testing.T) {
			updated, err := flow.UpdateExchangeRate(ctx, &dto.UpdateExchangeRateRequest{Rate: 4.52})
			require.NoError(t, err)
			assert.Equal(t, 4.52, updated.Rate)
			assert.False(t, updated.IsDefault)

			resp, err := flow.CurrentExchangeRate(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4.52, resp.Rate)
		})
	})
}

func TestAvailabilityFlow(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewAvailabilityFlow(
			repository.NewGrindingPriceRepository(testDB.DB),
			repository.NewFilmPriceRepository(testDB.DB),
			testDB.DB,
		)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestGrindingPrice(models.ProviderCAMU, utils.ToPtr(models.GritFine), 1.0, 1.25, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestGrindingPrice(models.ProviderCAMU, utils.ToPtr(models.GritMedium), 1.0, 0, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestBorysGrindingPrice(models.WidthVariantNarrow, 1.0, 1.40)
		require.NoError(t, err)

		t.Run("AvailableCell", func(t *testing.T) {
			resp, err := flow.CheckGrinding(ctx, &dto.GrindingCheckRequest{
				Provider:  models.ProviderCAMU,
				Thickness: 1.0,
				Width:     1250,
				Grit:      models.GritFine,
			})
			require.NoError(t, err)
			assert.True(t, resp.IsAvailable)
			require.NotNil(t, resp.Price)
			assert.Equal(t, 1.25, *resp.Price)
		})

		t.Run("ZeroPricedCellUnavailable", func(t *testing.T) {
			resp, err := flow.CheckGrinding(ctx, &dto.GrindingCheckRequest{
				Provider:  models.ProviderCAMU,
				Thickness: 1.0,
				Width:     1250,
				Grit:      models.GritMedium,
			})
			require.NoError(t, err)
			assert.False(t, resp.IsAvailable)
			assert.Nil(t, resp.Price)
		})

		t.Run("BorysWidthVariantSelection", func(t *testing.T) {
			// Width 1250 maps to the narrow price list, width 2000 to the wide
			// one; only the narrow list is priced here.
			narrow, err := flow.CheckGrinding(ctx, &dto.GrindingCheckRequest{
				Provider:  models.ProviderBORYS,
				Thickness: 1.0,
				Width:     1250,
			})
			require.NoError(t, err)
			assert.True(t, narrow.IsAvailable)

			wide, err := flow.CheckGrinding(ctx, &dto.GrindingCheckRequest{
				Provider:  models.ProviderBORYS,
				Thickness: 1.0,
				Width:     2000,
			})
			require.NoError(t, err)
			assert.False(t, wide.IsAvailable)
		})

		t.Run("CheckFilm", func(t *testing.T) {
			_, err := fixtures.CreateTestFilmPrice(models.FilmFiber, 1.0, 0.55)
			require.NoError(t, err)

			resp, err := flow.CheckFilm(ctx, &dto.FilmCheckRequest{FilmType: models.FilmFiber, Thickness: 1.0})
			require.NoError(t, err)
			assert.True(t, resp.IsAvailable)
			require.NotNil(t, resp.Price)
			assert.Equal(t, 0.55, *resp.Price)

			missing, err := flow.CheckFilm(ctx, &dto.FilmCheckRequest{FilmType: models.FilmFiber, Thickness: 5.0})
			require.NoError(t, err)
			assert.False(t, missing.IsAvailable)
		})

		t.Run("UpsertGrindingPrice", func(t *testing.T) {
			resp, err := flow.UpsertGrindingPrice(ctx, &dto.UpsertGrindingPriceRequest{
				Provider:  models.ProviderCOSTA,
				Thickness: 2.0,
				Grit:      models.GritCoarse,
				Price:     utils.ToPtr(1.65),
			})
			require.NoError(t, err)
			assert.Equal(t, 1.65, resp.Price)
			assert.False(t, resp.IsBlocked)

			again, err := flow.UpsertGrindingPrice(ctx, &dto.UpsertGrindingPriceRequest{
				Provider:  models.ProviderCOSTA,
				Thickness: 2.0,
				Grit:      models.GritCoarse,
				Price:     utils.ToPtr(0.0),
			})
			require.NoError(t, err)
			assert.Equal(t, resp.ID, again.ID)
			assert.True(t, again.IsBlocked)
		})
	})
}
