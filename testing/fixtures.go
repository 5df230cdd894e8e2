// Package testing provides test utilities and database setup for testing the pricing engine
package testing

import (
	"fmt"
	"math/rand"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestMaterialGroup creates a material group with a unique name
func (tf *TestFixtures) CreateTestMaterialGroup(category string) (*models.MaterialGroup, error) {
	group := &models.MaterialGroup{
		Name:         fmt.Sprintf("Grupa testowa %06d", rand.Intn(1000000)),
		Category:     category,
		DisplayOrder: 0,
		IsActive:     true,
	}
	if err := tf.DB.DB.Create(group).Error; err != nil {
		return nil, fmt.Errorf("failed to create material group: %w", err)
	}
	return group, nil
}

// CreateTestMaterial creates a material for the given grade. Density and name
// come from the standard grade table when the grade is known.
func (tf *TestFixtures) CreateTestMaterial(grade, category string) (*models.Material, error) {
	seed := models.SeedForGrade(grade)
	material := &models.Material{
		Name:     fmt.Sprintf("%s %06d", seed.Name, rand.Intn(1000000)),
		Category: category,
		Grade:    grade,
		Density:  seed.Density,
		IsActive: true,
	}
	if err := tf.DB.DB.Create(material).Error; err != nil {
		return nil, fmt.Errorf("failed to create material %s: %w", grade, err)
	}
	return material, nil
}

// CreateTestMaterialInGroup creates a material attached to a group
func (tf *TestFixtures) CreateTestMaterialInGroup(grade, category string, groupID uint) (*models.Material, error) {
	material, err := tf.CreateTestMaterial(grade, category)
	if err != nil {
		return nil, err
	}
	material.GroupID = &groupID
	if err := tf.DB.DB.Save(material).Error; err != nil {
		return nil, fmt.Errorf("failed to attach material %s to group %d: %w", grade, groupID, err)
	}
	return material, nil
}

// CreateTestBasePrice creates an active base price row for one sheet variant
func (tf *TestFixtures) CreateTestBasePrice(materialID uint, finish string, thickness, width, price float64) (*models.BasePrice, error) {
	row := &models.BasePrice{
		MaterialID:    materialID,
		SurfaceFinish: finish,
		Thickness:     thickness,
		Width:         width,
		Length:        width * 2,
		PricePLNPerKg: price,
		ValidFrom:     utils.UTCNow(),
		IsActive:      true,
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create base price: %w", err)
	}
	return row, nil
}

// CreateTestGrindingPrice creates one grinding matrix cell. Price 0 blocks
// the combination.
func (tf *TestFixtures) CreateTestGrindingPrice(provider string, grit *string, thickness, price float64, withSB bool) (*models.GrindingPrice, error) {
	row := &models.GrindingPrice{
		Provider:      provider,
		Grit:          grit,
		Thickness:     thickness,
		PricePLNPerKg: price,
		WithSB:        withSB,
		IsActive:      true,
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create grinding price: %w", err)
	}
	return row, nil
}

// CreateTestBorysGrindingPrice creates a BORYS cell, which is keyed by width
// variant instead of grit
func (tf *TestFixtures) CreateTestBorysGrindingPrice(widthVariant string, thickness, price float64) (*models.GrindingPrice, error) {
	row := &models.GrindingPrice{
		Provider:      models.ProviderBORYS,
		WidthVariant:  &widthVariant,
		Thickness:     thickness,
		PricePLNPerKg: price,
		IsActive:      true,
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create BORYS grinding price: %w", err)
	}
	return row, nil
}

// CreateTestFilmPrice creates one film matrix cell
func (tf *TestFixtures) CreateTestFilmPrice(filmType string, thickness, price float64) (*models.FilmPrice, error) {
	row := &models.FilmPrice{
		FilmType:      filmType,
		Thickness:     thickness,
		PricePLNPerKg: price,
		IsActive:      true,
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create film price: %w", err)
	}
	return row, nil
}

// CreateTestExchangeRate creates an active EUR->PLN rate
func (tf *TestFixtures) CreateTestExchangeRate(rate float64) (*models.ExchangeRate, error) {
	row := &models.ExchangeRate{
		CurrencyFrom: models.CurrencyEUR,
		CurrencyTo:   models.CurrencyPLN,
		Rate:         rate,
		ValidFrom:    utils.UTCNow(),
		IsActive:     true,
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}
	return row, nil
}

// CreateTestProcessingOption creates a gating rule for grade + finish
func (tf *TestFixtures) CreateTestProcessingOption(grade, finish string, grindingAllowed, filmAllowed bool, notes string) (*models.ProcessingOption, error) {
	row := &models.ProcessingOption{
		Grade:           &grade,
		SurfaceFinish:   &finish,
		GrindingAllowed: grindingAllowed,
		FilmAllowed:     filmAllowed,
		IsActive:        true,
	}
	if notes != "" {
		row.Notes = &notes
	}
	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create processing option: %w", err)
	}
	return row, nil
}

// SeedPricedVariant creates a material plus an active base price in one call,
// the minimum a pricing or bulk test needs
func (tf *TestFixtures) SeedPricedVariant(grade, category, finish string, thickness, width, price float64) (*models.Material, *models.BasePrice, error) {
	material, err := tf.CreateTestMaterial(grade, category)
	if err != nil {
		return nil, nil, err
	}
	basePrice, err := tf.CreateTestBasePrice(material.ID, finish, thickness, width, price)
	if err != nil {
		return nil, nil, err
	}
	return material, basePrice, nil
}
