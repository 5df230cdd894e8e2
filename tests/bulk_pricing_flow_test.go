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

func newBulkPricingFlow(testDB *testingutil.TestDB) businessflow.BulkPricingFlow {
	return businessflow.NewBulkPricingFlow(
		repository.NewBasePriceRepository(testDB.DB),
		repository.NewMaterialGroupRepository(testDB.DB),
		repository.NewPriceChangeAuditRepository(testDB.DB),
		testDB.DB,
	)
}

func TestBulkPricingFlowPreview(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBulkPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)
		carbon, _, err := fixtures.SeedPricedVariant("DC01", models.MaterialCategoryCarbon, models.FinishCR, 1.0, 1250, 4.10)
		require.NoError(t, err)

		t.Run("PercentageDecrease", func(t *testing.T) {
			resp, err := flow.Preview(ctx, &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Categories: []string{models.MaterialCategoryStainless}},
				ChangeType:  businessflow.ChangeTypePercentage,
				ChangeValue: -10,
			}, 1, 50)
			require.NoError(t, err)

			assert.Equal(t, 1, resp.TotalAffected)
			require.Len(t, resp.Items, 1)
			item := resp.Items[0]
			assert.Equal(t, "1.4301", item.MaterialGrade)
			assert.Equal(t, 8.20, item.CurrentPrice)
			assert.Equal(t, 7.38, item.NewPrice)
			assert.InDelta(t, -0.82, item.ChangeAmount, 0.0001)
			assert.Equal(t, 8.20, resp.TotalCurrentValue)
			assert.Equal(t, 7.38, resp.TotalNewValue)
		})

		t.Run("FilterExcludesOtherCategories", func(t *testing.T) {
			resp, err := flow.Preview(ctx, &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Categories: []string{models.MaterialCategoryCarbon}},
				ChangeType:  businessflow.ChangeTypeAbsolute,
				ChangeValue: 0.50,
			}, 1, 50)
			require.NoError(t, err)

			assert.Equal(t, 1, resp.TotalAffected)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, carbon.Grade, resp.Items[0].MaterialGrade)
			assert.Equal(t, 4.60, resp.Items[0].NewPrice)
		})

		t.Run("ZeroPricedRowsNeverSelected", func(t *testing.T) {
			_, err := fixtures.CreateTestBasePrice(carbon.ID, models.FinishHR, 2.0, 1500, 0)
			require.NoError(t, err)

			resp, err := flow.Preview(ctx, &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Categories: []string{models.MaterialCategoryCarbon}},
				ChangeType:  businessflow.ChangeTypePercentage,
				ChangeValue: 5,
			}, 1, 50)
			require.NoError(t, err)
			assert.Equal(t, 1, resp.TotalAffected)
		})

		t.Run("PercentageBelowMinusHundredRejected", func(t *testing.T) {
			_, err := flow.Preview(ctx, &dto.BulkChangeRequest{
				ChangeType:  businessflow.ChangeTypePercentage,
				ChangeValue: -150,
			}, 1, 50)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidChangeValue(err))
		})

		t.Run("UnknownChangeTypeRejected", func(t *testing.T) {
			_, err := flow.Preview(ctx, &dto.BulkChangeRequest{
				ChangeType:  "multiplicative",
				ChangeValue: 2,
			}, 1, 50)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidChangeType(err))
		})
	})
}

func TestBulkPricingFlowApply(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBulkPricingFlow(testDB)
		baseRepo := repository.NewBasePriceRepository(testDB.DB)
		auditRepo := repository.NewPriceChangeAuditRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("203.0.113.7", "cennik-tests")
		metadata.SetActor("j.nowak")

		material, priced, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)
		_ = material

		t.Run("PercentageApplyMatchesPreview", func(t *testing.T) {
			req := &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Grades: []string{"1.4301"}},
				ChangeType:  businessflow.ChangeTypePercentage,
				ChangeValue: -10,
			}
			preview, err := flow.Preview(ctx, req, 1, 50)
			require.NoError(t, err)

			resp, err := flow.Apply(ctx, req, metadata)
			require.NoError(t, err)

			assert.True(t, resp.Success)
			assert.Equal(t, preview.TotalAffected, resp.UpdatedCount)
			assert.Equal(t, 1, resp.UpdatedCount)
			assert.Equal(t, 0, resp.SkippedCount)
			assert.Equal(t, 8.20, resp.TotalPrevious)
			assert.Equal(t, 7.38, resp.TotalNew)
			assert.NotZero(t, resp.AuditID)

			row, err := baseRepo.ByID(ctx, priced.ID)
			require.NoError(t, err)
			assert.Equal(t, 7.38, row.PricePLNPerKg)
		})

		t.Run("AuditRowWritten", func(t *testing.T) {
			entries, err := auditRepo.ListRecent(ctx, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, entries)
			latest := entries[0]
			assert.Equal(t, models.ChangeTypeBulkPercentage, latest.ChangeType)
			assert.Equal(t, 1, latest.AffectedCount)
			require.NotNil(t, latest.UserID)
			assert.Equal(t, "j.nowak", *latest.UserID)
		})

		t.Run("ZeroChangeIsIdempotent", func(t *testing.T) {
			resp, err := flow.Apply(ctx, &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Grades: []string{"1.4301"}},
				ChangeType:  businessflow.ChangeTypeAbsolute,
				ChangeValue: 0,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 0, resp.UpdatedCount)
			assert.Equal(t, 1, resp.SkippedCount)
		})

		t.Run("AbsoluteDecreaseClampsAtZero", func(t *testing.T) {
			resp, err := flow.Apply(ctx, &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Grades: []string{"1.4301"}},
				ChangeType:  businessflow.ChangeTypeAbsolute,
				ChangeValue: -999,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 1, resp.UpdatedCount)
			assert.Zero(t, resp.TotalNew)

			row, err := baseRepo.ByID(ctx, priced.ID)
			require.NoError(t, err)
			assert.Zero(t, row.PricePLNPerKg)

			// The row is now a blocked variant and out of bulk scope.
			again, err := flow.Apply(ctx, &dto.BulkChangeRequest{
				Filters:     dto.BulkPriceFilters{Grades: []string{"1.4301"}},
				ChangeType:  businessflow.ChangeTypePercentage,
				ChangeValue: 10,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 0, again.UpdatedCount)
		})
	})
}

func TestBulkPricingFlowFilterOptions(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBulkPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)
		_, _, err = fixtures.SeedPricedVariant("DC01", models.MaterialCategoryCarbon, models.FinishCR, 2.0, 1500, 4.10)
		require.NoError(t, err)

		t.Run("Unfiltered", func(t *testing.T) {
			resp, err := flow.FilterOptions(ctx, &dto.BulkPriceFilters{})
			require.NoError(t, err)

			assert.Contains(t, resp.Grades, "1.4301")
			assert.Contains(t, resp.Grades, "DC01")
			assert.Equal(t, 1.0, resp.ThicknessRange.Min)
			assert.Equal(t, 2.0, resp.ThicknessRange.Max)
		})

		t.Run("CategoryNarrowsGradesButNotCategories", func(t *testing.T) {
			resp, err := flow.FilterOptions(ctx, &dto.BulkPriceFilters{
				Categories: []string{models.MaterialCategoryStainless},
			})
			require.NoError(t, err)

			assert.Contains(t, resp.Grades, "1.4301")
			assert.NotContains(t, resp.Grades, "DC01")

			// The category facet keeps every selectable value so the user can
			// widen the current selection.
			values := make([]string, 0, len(resp.Categories))
			for _, c := range resp.Categories {
				values = append(values, c.Value)
			}
			assert.Contains(t, values, models.MaterialCategoryStainless)
			assert.Contains(t, values, models.MaterialCategoryCarbon)
		})
	})
}

func TestBulkPricingFlowAuditHistory(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newBulkPricingFlow(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("203.0.113.7", "cennik-tests")

		_, _, err := fixtures.SeedPricedVariant("1.4301", models.MaterialCategoryStainless, models.Finish2B, 1.0, 1250, 8.20)
		require.NoError(t, err)

		_, err = flow.Apply(ctx, &dto.BulkChangeRequest{
			Filters:     dto.BulkPriceFilters{Grades: []string{"1.4301"}},
			ChangeType:  businessflow.ChangeTypePercentage,
			ChangeValue: 5,
		}, metadata)
		require.NoError(t, err)

		_, err = flow.Apply(ctx, &dto.BulkChangeRequest{
			Filters:     dto.BulkPriceFilters{Grades: []string{"1.4301"}},
			ChangeType:  businessflow.ChangeTypeAbsolute,
			ChangeValue: 0.25,
		}, metadata)
		require.NoError(t, err)

		t.Run("All", func(t *testing.T) {
			resp, err := flow.AuditHistory(ctx, 10, 0, nil)
			require.NoError(t, err)
			assert.EqualValues(t, 2, resp.Total)
			require.Len(t, resp.Items, 2)
		})

		t.Run("FilteredByChangeType", func(t *testing.T) {
			resp, err := flow.AuditHistory(ctx, 10, 0, utils.ToPtr(models.ChangeTypeBulkAbsolute))
			require.NoError(t, err)
			assert.EqualValues(t, 1, resp.Total)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, models.ChangeTypeBulkAbsolute, resp.Items[0].ChangeType)
		})
	})
}
