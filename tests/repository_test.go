// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	testingutil "github.com/blachmet/cennik/testing"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialRepository(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewMaterialRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		material, err := fixtures.CreateTestMaterial("1.4301", models.MaterialCategoryStainless)
		require.NoError(t, err)

		t.Run("ByGrade", func(t *testing.T) {
			found, err := repo.ByGrade(ctx, "1.4301")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, material.ID, found.ID)
		})

		t.Run("ByGradeNotFound", func(t *testing.T) {
			found, err := repo.ByGrade(ctx, "9.9999")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByFilterCategory", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.MaterialFilter{Category: utils.ToPtr(models.MaterialCategoryStainless)}, "", 0, 0)
			require.NoError(t, err)
			require.NotEmpty(t, rows)
			for _, m := range rows {
				assert.Equal(t, models.MaterialCategoryStainless, m.Category)
			}
		})

		t.Run("ListActiveSkipsDeactivated", func(t *testing.T) {
			inactive, err := fixtures.CreateTestMaterial("DC01", models.MaterialCategoryCarbon)
			require.NoError(t, err)
			inactive.IsActive = false
			require.NoError(t, repo.Save(ctx, inactive))

			rows, err := repo.ListActive(ctx)
			require.NoError(t, err)
			for _, m := range rows {
				assert.NotEqual(t, inactive.ID, m.ID)
			}
		})
	})
}

func TestBasePriceRepository(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewBasePriceRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		material, err := fixtures.CreateTestMaterial("1.4301", models.MaterialCategoryStainless)
		require.NoError(t, err)

		t.Run("LatestForPicksMostRecentValidFrom", func(t *testing.T) {
			older := &models.BasePrice{
				MaterialID:    material.ID,
				SurfaceFinish: models.Finish2B,
				Thickness:     1.0,
				Width:         1250,
				Length:        2500,
				PricePLNPerKg: 7.90,
				ValidFrom:     utils.UTCNow().Add(-48 * time.Hour),
				IsActive:      true,
			}
			require.NoError(t, testDB.DB.Create(older).Error)
			newer, err := fixtures.CreateTestBasePrice(material.ID, models.Finish2B, 1.0, 1250, 8.20)
			require.NoError(t, err)

			got, err := repo.LatestFor(ctx, material.ID, models.Finish2B, 1.0, 1250)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, newer.ID, got.ID)
			assert.Equal(t, 8.20, got.PricePLNPerKg)
		})

		t.Run("LatestForMissingVariant", func(t *testing.T) {
			got, err := repo.LatestFor(ctx, material.ID, models.FinishBA, 3.0, 2000)
			require.NoError(t, err)
			assert.Nil(t, got)
		})

		t.Run("ListForBulkExcludesZeroPriced", func(t *testing.T) {
			_, err := fixtures.CreateTestBasePrice(material.ID, models.Finish2B, 2.0, 1500, 0)
			require.NoError(t, err)
			priced, err := fixtures.CreateTestBasePrice(material.ID, models.Finish2B, 2.5, 1500, 9.40)
			require.NoError(t, err)

			rows, err := repo.ListForBulk(ctx, models.BasePriceFilter{Grades: []string{"1.4301"}})
			require.NoError(t, err)
			ids := make(map[uint]bool, len(rows))
			for _, r := range rows {
				assert.Greater(t, r.PricePLNPerKg, 0.0)
				require.NotNil(t, r.Material)
				ids[r.ID] = true
			}
			assert.True(t, ids[priced.ID])
		})

		t.Run("ListForTableKeepsZeroPriced", func(t *testing.T) {
			rows, err := repo.ListForTable(ctx, models.BasePriceFilter{Grades: []string{"1.4301"}})
			require.NoError(t, err)
			var sawZero bool
			for _, r := range rows {
				if r.PricePLNPerKg == 0 {
					sawZero = true
				}
			}
			assert.True(t, sawZero)
		})

		t.Run("UpdatePrice", func(t *testing.T) {
			row, err := fixtures.CreateTestBasePrice(material.ID, models.FinishBA, 0.8, 1000, 10.10)
			require.NoError(t, err)
			require.NoError(t, repo.UpdatePrice(ctx, row.ID, 11.55))

			got, err := repo.ByID(ctx, row.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, 11.55, got.PricePLNPerKg)
		})

		t.Run("Facets", func(t *testing.T) {
			grades, err := repo.ListGrades(ctx, models.BasePriceFilter{})
			require.NoError(t, err)
			assert.Contains(t, grades, "1.4301")

			finishes, err := repo.ListSurfaceFinishes(ctx, models.BasePriceFilter{Grades: []string{"1.4301"}})
			require.NoError(t, err)
			assert.Contains(t, finishes, models.Finish2B)

			min, max, err := repo.ThicknessBounds(ctx, models.BasePriceFilter{Grades: []string{"1.4301"}})
			require.NoError(t, err)
			require.NotNil(t, min)
			require.NotNil(t, max)
			assert.LessOrEqual(t, *min, *max)
		})
	})
}

func TestGrindingPriceRepository(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewGrindingPriceRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("LookupByProviderAndGrit", func(t *testing.T) {
			row, err := fixtures.CreateTestGrindingPrice(models.ProviderCAMU, utils.ToPtr(models.GritFine), 1.0, 1.25, false)
			require.NoError(t, err)

			got, err := repo.Lookup(ctx, models.GrindingPriceFilter{
				Provider:  utils.ToPtr(models.ProviderCAMU),
				Grit:      utils.ToPtr(models.GritFine),
				Thickness: utils.ToPtr(1.0),
				WithSB:    utils.ToPtr(false),
			})
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, row.ID, got.ID)
		})

		t.Run("FindCellNullGrit", func(t *testing.T) {
			// BORYS rows have no grit, only a width variant.
			row, err := fixtures.CreateTestBorysGrindingPrice(models.WidthVariantNarrow, 2.0, 1.35)
			require.NoError(t, err)

			got, err := repo.FindCell(ctx, models.ProviderBORYS, 2.0, nil, utils.ToPtr(models.WidthVariantNarrow), false)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, row.ID, got.ID)

			missing, err := repo.FindCell(ctx, models.ProviderBORYS, 2.0, nil, utils.ToPtr(models.WidthVariantWide), false)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("FindCellSeesInactiveRows", func(t *testing.T) {
			row, err := fixtures.CreateTestGrindingPrice(models.ProviderBABCIA, utils.ToPtr(models.GritMedium), 1.5, 1.10, false)
			require.NoError(t, err)
			row.IsActive = false
			require.NoError(t, repo.Save(ctx, row))

			got, err := repo.FindCell(ctx, models.ProviderBABCIA, 1.5, utils.ToPtr(models.GritMedium), nil, false)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, row.ID, got.ID)
		})

		t.Run("ListProviders", func(t *testing.T) {
			providers, err := repo.ListProviders(ctx)
			require.NoError(t, err)
			assert.Contains(t, providers, models.ProviderCAMU)
			assert.Contains(t, providers, models.ProviderBORYS)
		})
	})
}

func TestFilmPriceRepository(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewFilmPriceRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		row, err := fixtures.CreateTestFilmPrice(models.FilmZwykla, 1.0, 0.35)
		require.NoError(t, err)

		t.Run("Lookup", func(t *testing.T) {
			got, err := repo.Lookup(ctx, models.FilmZwykla, 1.0)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, row.ID, got.ID)
		})

		t.Run("LookupMissing", func(t *testing.T) {
			got, err := repo.Lookup(ctx, models.FilmZwykla, 9.0)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	})
}

func TestExchangeRateRepository(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewExchangeRateRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("LatestActivePicksNewest", func(t *testing.T) {
			_, err := fixtures.CreateTestExchangeRate(4.30)
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond)
			newer, err := fixtures.CreateTestExchangeRate(4.38)
			require.NoError(t, err)

			got, err := repo.LatestActive(ctx, models.CurrencyEUR, models.CurrencyPLN)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, newer.ID, got.ID)
			assert.Equal(t, 4.38, got.Rate)
		})

		t.Run("LatestActiveMissingPair", func(t *testing.T) {
			got, err := repo.LatestActive(ctx, "USD", models.CurrencyPLN)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	})
}

func TestWithTransaction(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewMaterialRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("RollbackOnError", func(t *testing.T) {
			sentinel := errors.New("boom")
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				if err := repo.Save(txCtx, &models.Material{
					Name:     "Rollback material",
					Category: models.MaterialCategoryStainless,
					Grade:    "1.4000",
					Density:  7.9,
					IsActive: true,
				}); err != nil {
					return err
				}
				return sentinel
			})
			assert.ErrorIs(t, err, sentinel)

			found, err := repo.ByGrade(ctx, "1.4000")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("CommitOnSuccess", func(t *testing.T) {
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				return repo.Save(txCtx, &models.Material{
					Name:     "Committed material",
					Category: models.MaterialCategoryStainless,
					Grade:    "1.4016",
					Density:  7.7,
					IsActive: true,
				})
			})
			require.NoError(t, err)

			found, err := repo.ByGrade(ctx, "1.4016")
			require.NoError(t, err)
			assert.NotNil(t, found)
		})
	})
}
