package businessflow

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNewPrice(t *testing.T) {
	tests := []struct {
		name        string
		current     float64
		changeType  string
		changeValue float64
		roundPlaces int
		expected    float64
	}{
		{
			name:        "percentage decrease",
			current:     8.20,
			changeType:  ChangeTypePercentage,
			changeValue: -10,
			roundPlaces: 2,
			expected:    7.38,
		},
		{
			name:        "percentage increase",
			current:     8.20,
			changeType:  ChangeTypePercentage,
			changeValue: 10,
			roundPlaces: 2,
			expected:    9.02,
		},
		{
			name:        "absolute increase",
			current:     10.0,
			changeType:  ChangeTypeAbsolute,
			changeValue: 0.5,
			roundPlaces: 2,
			expected:    10.5,
		},
		{
			name:        "absolute decrease clamps at zero",
			current:     5.0,
			changeType:  ChangeTypeAbsolute,
			changeValue: -10,
			roundPlaces: 2,
			expected:    0,
		},
		{
			name:        "minus one hundred percent zeroes the price",
			current:     8.2,
			changeType:  ChangeTypePercentage,
			changeValue: -100,
			roundPlaces: 2,
			expected:    0,
		},
		{
			name:        "integer rounding",
			current:     10,
			changeType:  ChangeTypePercentage,
			changeValue: 33,
			roundPlaces: 0,
			expected:    13,
		},
		{
			name:        "three decimal places",
			current:     8.0,
			changeType:  ChangeTypePercentage,
			changeValue: 5,
			roundPlaces: 3,
			expected:    8.4,
		},
		{
			name:        "zero change keeps the price",
			current:     7.38,
			changeType:  ChangeTypeAbsolute,
			changeValue: 0,
			roundPlaces: 2,
			expected:    7.38,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateNewPrice(tt.current, tt.changeType, tt.changeValue, tt.roundPlaces)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestValidateChange(t *testing.T) {
	tests := []struct {
		name       string
		req        *dto.BulkChangeRequest
		wantPlaces int
		wantErr    bool
		errMatcher func(error) bool
	}{
		{
			name:       "percentage without round_to defaults to 2",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypePercentage, ChangeValue: -10},
			wantPlaces: 2,
		},
		{
			name:       "absolute with explicit round_to",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypeAbsolute, ChangeValue: 0.5, RoundTo: utils.ToPtr(0)},
			wantPlaces: 0,
		},
		{
			name:       "round_to upper bound",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypeAbsolute, ChangeValue: 1, RoundTo: utils.ToPtr(4)},
			wantPlaces: 4,
		},
		{
			name:       "minus one hundred percent is legal",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypePercentage, ChangeValue: -100},
			wantPlaces: 2,
		},
		{
			name:       "unknown change type",
			req:        &dto.BulkChangeRequest{ChangeType: "multiply", ChangeValue: 2},
			wantErr:    true,
			errMatcher: IsInvalidChangeType,
		},
		{
			name:       "percentage below minus one hundred",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypePercentage, ChangeValue: -150},
			wantErr:    true,
			errMatcher: IsInvalidChangeValue,
		},
		{
			name:       "round_to above four",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypeAbsolute, ChangeValue: 1, RoundTo: utils.ToPtr(5)},
			wantErr:    true,
			errMatcher: IsInvalidRounding,
		},
		{
			name:       "negative round_to",
			req:        &dto.BulkChangeRequest{ChangeType: ChangeTypeAbsolute, ChangeValue: 1, RoundTo: utils.ToPtr(-1)},
			wantErr:    true,
			errMatcher: IsInvalidRounding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places, err := validateChange(tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tt.errMatcher(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlaces, places)
		})
	}
}

func TestToBulkPreviewItem(t *testing.T) {
	t.Run("with material and group", func(t *testing.T) {
		row := &models.BasePrice{
			ID:            7,
			SurfaceFinish: "2B",
			Thickness:     1.0,
			Width:         1250,
			PricePLNPerKg: 8.20,
			Material: &models.Material{
				Grade: "1.4301",
				Name:  "Stal nierdzewna 1.4301",
				Group: &models.MaterialGroup{Name: "Nierdzewne austenityczne"},
			},
		}

		item := toBulkPreviewItem(row, 7.38, 2)

		assert.Equal(t, uint(7), item.ID)
		assert.Equal(t, "1.4301", item.MaterialGrade)
		assert.Equal(t, "Stal nierdzewna 1.4301", item.MaterialName)
		require.NotNil(t, item.GroupName)
		assert.Equal(t, "Nierdzewne austenityczne", *item.GroupName)
		assert.Equal(t, 8.20, item.CurrentPrice)
		assert.Equal(t, 7.38, item.NewPrice)
		assert.InDelta(t, -0.82, item.ChangeAmount, 1e-9)
	})

	t.Run("without preloaded material", func(t *testing.T) {
		row := &models.BasePrice{ID: 9, SurfaceFinish: "2B", PricePLNPerKg: 5}

		item := toBulkPreviewItem(row, 5.5, 2)

		assert.Empty(t, item.MaterialGrade)
		assert.Nil(t, item.GroupName)
		assert.InDelta(t, 0.5, item.ChangeAmount, 1e-9)
	})
}

func TestToPriceAuditEntryDTO(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	t.Run("full row", func(t *testing.T) {
		row := &models.PriceChangeAudit{
			ID:            3,
			ChangeType:    models.ChangeTypeBulkPercentage,
			FiltersJSON:   json.RawMessage(`{"grades":["1.4301"]}`),
			ChangeValue:   -10,
			AffectedCount: 12,
			PreviousTotal: 98.4,
			NewTotal:      88.56,
			UserID:        utils.ToPtr("jan.kowalski"),
			CreatedAt:     createdAt,
		}

		entry := toPriceAuditEntryDTO(row)

		assert.Equal(t, "jan.kowalski", entry.User)
		assert.Equal(t, "2025-06-01T12:30:00Z", entry.CreatedAt)
		require.NotNil(t, entry.Filters)
		filters, ok := entry.Filters.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, filters, "grades")
	})

	t.Run("missing user falls back to unknown", func(t *testing.T) {
		row := &models.PriceChangeAudit{ID: 4, ChangeType: models.ChangeTypeBulkAbsolute, CreatedAt: createdAt}

		entry := toPriceAuditEntryDTO(row)

		assert.Equal(t, "unknown", entry.User)
		assert.Nil(t, entry.Filters)
	})

	t.Run("unparseable filter snapshot is dropped", func(t *testing.T) {
		row := &models.PriceChangeAudit{
			ID:          5,
			ChangeType:  models.ChangeTypeBulkAbsolute,
			FiltersJSON: json.RawMessage(`{broken`),
			CreatedAt:   createdAt,
		}

		entry := toPriceAuditEntryDTO(row)

		assert.Nil(t, entry.Filters)
	})
}
