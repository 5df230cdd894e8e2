package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
)

func TestStandardGrades(t *testing.T) {
	require.Len(t, models.StandardGrades, 9)

	densities := map[string]float64{
		"1.4301": 7.9,
		"1.4404": 8.0,
		"1.4016": 7.7,
		"DC01":   7.85,
		"S235JR": 7.85,
		"S355JR": 7.85,
		"1050":   2.71,
		"5754":   2.66,
		"6061":   2.70,
	}
	categories := map[string]int{}
	for _, seed := range models.StandardGrades {
		want, ok := densities[seed.Grade]
		require.True(t, ok, "unexpected grade %s", seed.Grade)
		assert.InDelta(t, want, seed.Density, 1e-9, "density of %s", seed.Grade)
		assert.NotEmpty(t, seed.Name)
		assert.NotEmpty(t, seed.Description)
		categories[seed.Category]++
	}
	assert.Equal(t, 3, categories[models.MaterialCategoryStainless])
	assert.Equal(t, 3, categories[models.MaterialCategoryCarbon])
	assert.Equal(t, 3, categories[models.MaterialCategoryAluminum])
}

func TestSeedForGrade(t *testing.T) {
	t.Run("standard grade", func(t *testing.T) {
		seed := models.SeedForGrade("1.4404")
		assert.Equal(t, "Stal nierdzewna 316L", seed.Name)
		assert.Equal(t, models.MaterialCategoryStainless, seed.Category)
		assert.InDelta(t, 8.0, seed.Density, 1e-9)
		assert.Contains(t, seed.EquivalentGrades, "AISI 316L")
	})

	t.Run("unseen grade falls back to stainless defaults", func(t *testing.T) {
		seed := models.SeedForGrade("1.4571")
		assert.Equal(t, "Materiał 1.4571", seed.Name)
		assert.Equal(t, models.MaterialCategoryStainless, seed.Category)
		assert.InDelta(t, models.DefaultDensity, seed.Density, 1e-9)
		assert.Empty(t, seed.EquivalentGrades)
	})
}

func TestToMaterialDTO(t *testing.T) {
	t.Run("with group", func(t *testing.T) {
		groupID := uint(4)
		item := toMaterialDTO(&models.Material{
			ID:               12,
			GroupID:          &groupID,
			Group:            &models.MaterialGroup{ID: 4, Name: "Austenityczne"},
			Name:             "Stal nierdzewna 304",
			Category:         models.MaterialCategoryStainless,
			Grade:            "1.4301",
			Density:          7.9,
			EquivalentGrades: []string{"AISI 304"},
			IsActive:         true,
		})
		assert.Equal(t, uint(12), item.ID)
		assert.Equal(t, "1.4301", item.Grade)
		assert.Equal(t, []string{"AISI 304"}, item.EquivalentGrades)
		require.NotNil(t, item.GroupID)
		assert.Equal(t, uint(4), *item.GroupID)
		require.NotNil(t, item.GroupName)
		assert.Equal(t, "Austenityczne", *item.GroupName)
		assert.True(t, item.IsActive)
	})

	t.Run("without group", func(t *testing.T) {
		item := toMaterialDTO(&models.Material{
			ID:       7,
			Name:     "Aluminium 1050",
			Category: models.MaterialCategoryAluminum,
			Grade:    "1050",
			Density:  2.71,
		})
		assert.Nil(t, item.GroupID)
		assert.Nil(t, item.GroupName)
		assert.Empty(t, item.EquivalentGrades)
	})
}

func TestToMaterialGroupDTO(t *testing.T) {
	item := toMaterialGroupDTO(&models.MaterialGroup{
		ID:          3,
		Name:        "Ferrytyczne",
		Category:    models.MaterialCategoryStainless,
		Description: utils.ToPtr("Stale magnetyczne"),
	}, 2)
	assert.Equal(t, uint(3), item.ID)
	assert.Equal(t, "Ferrytyczne", item.Name)
	assert.Equal(t, models.MaterialCategoryStainless, item.Category)
	require.NotNil(t, item.Description)
	assert.Equal(t, "Stale magnetyczne", *item.Description)
	assert.Equal(t, 2, item.Materials)
}

func TestToProcessingOptionDTO(t *testing.T) {
	item := toProcessingOptionDTO(&models.ProcessingOption{
		ID:               9,
		Grade:            utils.ToPtr("1.4301"),
		SurfaceFinish:    utils.ToPtr(models.FinishRyfel),
		ThicknessMax:     utils.ToPtr(3.0),
		GrindingAllowed:  false,
		FilmAllowed:      true,
		GrindingProvider: utils.ToPtr(models.ProviderCAMU),
		Notes:            utils.ToPtr("Ryfel nie podlega szlifowaniu"),
	})
	assert.Equal(t, uint(9), item.ID)
	require.NotNil(t, item.Grade)
	assert.Equal(t, "1.4301", *item.Grade)
	require.NotNil(t, item.SurfaceFinish)
	assert.Equal(t, models.FinishRyfel, *item.SurfaceFinish)
	assert.Nil(t, item.ThicknessMin)
	require.NotNil(t, item.ThicknessMax)
	assert.InDelta(t, 3.0, *item.ThicknessMax, 1e-9)
	assert.False(t, item.GrindingAllowed)
	assert.True(t, item.FilmAllowed)
	require.NotNil(t, item.Notes)
}
