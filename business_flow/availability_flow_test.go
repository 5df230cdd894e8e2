package businessflow

import (
	"testing"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityOf(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		active        bool
		wantAvailable bool
		wantPrice     float64
	}{
		{
			name:          "positive price on active row",
			price:         12.5,
			active:        true,
			wantAvailable: true,
			wantPrice:     12.5,
		},
		{
			name:          "zero price blocks the combination",
			price:         0,
			active:        true,
			wantAvailable: false,
			wantPrice:     0,
		},
		{
			name:          "inactive row is never available",
			price:         12.5,
			active:        false,
			wantAvailable: false,
			wantPrice:     0,
		},
		{
			name:          "negative price blocks the combination",
			price:         -1,
			active:        true,
			wantAvailable: false,
			wantPrice:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availabilityOf(tt.price, tt.active)
			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Equal(t, tt.wantPrice, got.Price)
		})
	}
}

func TestGritKey(t *testing.T) {
	tests := []struct {
		name     string
		grit     *string
		withSB   bool
		expected string
	}{
		{
			name:     "grit only",
			grit:     utils.ToPtr(models.GritCoarse),
			withSB:   false,
			expected: "K80/K120",
		},
		{
			name:     "grit with SB",
			grit:     utils.ToPtr(models.GritFine),
			withSB:   true,
			expected: "K320/K400_sb",
		},
		{
			name:     "no grit without SB",
			grit:     nil,
			withSB:   false,
			expected: "",
		},
		{
			name:     "no grit with SB",
			grit:     nil,
			withSB:   true,
			expected: "_sb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, gritKey(tt.grit, tt.withSB))
		})
	}
}

func TestThicknessKey(t *testing.T) {
	tests := []struct {
		thickness float64
		expected  string
	}{
		{0.4, "0.4"},
		{0.5, "0.5"},
		{1.0, "1"},
		{1.25, "1.25"},
		{10, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, thicknessKey(tt.thickness))
		})
	}
}

func TestGrindingWidthVariantFor(t *testing.T) {
	t.Run("only BORYS prices by width", func(t *testing.T) {
		assert.Nil(t, grindingWidthVariantFor(models.ProviderCAMU, 1000))
		assert.Nil(t, grindingWidthVariantFor(models.ProviderBABCIA, 2000))
		assert.Nil(t, grindingWidthVariantFor(models.ProviderCOSTA, 1500))
	})

	tests := []struct {
		name     string
		width    float64
		expected string
	}{
		{
			name:     "narrow coil at 1000",
			width:    1000,
			expected: models.WidthVariantNarrow,
		},
		{
			name:     "narrow coil at the 1500 boundary",
			width:    1500,
			expected: models.WidthVariantNarrow,
		},
		{
			name:     "wide coil just past the boundary",
			width:    1501,
			expected: models.WidthVariantWide,
		},
		{
			name:     "wide coil at 2000",
			width:    2000,
			expected: models.WidthVariantWide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variant := grindingWidthVariantFor(models.ProviderBORYS, tt.width)
			require.NotNil(t, variant)
			assert.Equal(t, tt.expected, *variant)
		})
	}
}

func TestNormalizeProvider(t *testing.T) {
	assert.Equal(t, "CAMU", normalizeProvider(" camu "))
	assert.Equal(t, "BORYS", normalizeProvider("Borys"))
	assert.Equal(t, "", normalizeProvider(""))
}
