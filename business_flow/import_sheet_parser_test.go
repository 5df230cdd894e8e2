package businessflow

import (
	"testing"

	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSheet(t *testing.T) {
	tests := []struct {
		name     string
		sheets   []string
		synonyms []string
		expected string
	}{
		{
			name:     "case-insensitive match",
			sheets:   []string{"Dane", "Cennik Baza"},
			synonyms: baseSheetNames,
			expected: "Cennik Baza",
		},
		{
			name:     "earlier synonym wins over later",
			sheets:   []string{"base", "Ceny bazowe"},
			synonyms: baseSheetNames,
			expected: "Ceny bazowe",
		},
		{
			name:     "legacy grinding sheet",
			sheets:   []string{"DANE FOLIA", "DANE SZLIF"},
			synonyms: grindingSheetNames,
			expected: "DANE SZLIF",
		},
		{
			name:     "no match",
			sheets:   []string{"Arkusz1", "Notatki"},
			synonyms: filmSheetNames,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findSheet(tt.sheets, tt.synonyms))
		})
	}
}

func TestParseCellFloat(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		expected float64
		wantErr  bool
	}{
		{name: "comma decimal", cell: "8,20", expected: 8.20},
		{name: "thousands with space", cell: "1 250,50", expected: 1250.50},
		{name: "plain dot decimal", cell: " 7.38 ", expected: 7.38},
		{name: "integer", cell: "12", expected: 12},
		{name: "empty", cell: "", wantErr: true},
		{name: "text", cell: "brak", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCellFloat(tt.cell)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestIsPlainNumber(t *testing.T) {
	assert.True(t, isPlainNumber("2"))
	assert.True(t, isPlainNumber("1.5"))
	assert.True(t, isPlainNumber("1.2.3"))
	assert.False(t, isPlainNumber(""))
	assert.False(t, isPlainNumber("."))
	assert.False(t, isPlainNumber("1,5"))
	assert.False(t, isPlainNumber("-1"))
	assert.False(t, isPlainNumber("1 250"))
}

func TestOptionalCell(t *testing.T) {
	assert.Nil(t, optionalCell(""))
	assert.Nil(t, optionalCell("  "))
	assert.Nil(t, optionalCell("nan"))
	assert.Nil(t, optionalCell("None"))

	got := optionalCell(" x1000/1250/1500 ")
	require.NotNil(t, got)
	assert.Equal(t, "x1000/1250/1500", *got)
}

func TestIsTruthyCell(t *testing.T) {
	assert.True(t, isTruthyCell("Tak"))
	assert.True(t, isTruthyCell("TRUE"))
	assert.True(t, isTruthyCell("yes"))
	assert.True(t, isTruthyCell("1"))
	assert.False(t, isTruthyCell("nie"))
	assert.False(t, isTruthyCell("0"))
	assert.False(t, isTruthyCell(""))
}

func TestParseBaseSheet(t *testing.T) {
	t.Run("mixed rows", func(t *testing.T) {
		rows := [][]string{
			{"Gatunek", "Powierzchnia", "Grubość", "Szerokość", "Z papierem"},
			{"1.4301", "2B", "1.0", "1250", "8,20"},
			{"", "2B", "1.0", "1250", "9.00"},
			{"1.4301", "2B", "1.5", "1250", ""},
			{"1.4301", "2B", "gruba", "1250", "9.00"},
			{"1.4404", "BA", "2.0", "1500", "10,5"},
		}

		parsed := parseBaseSheet(rows)

		assert.False(t, parsed.MissingGradeColumn)
		require.Len(t, parsed.Observations, 2)

		first := parsed.Observations[0]
		assert.Equal(t, 2, first.RowNumber)
		assert.Equal(t, "1.4301", first.Grade)
		assert.Equal(t, "2B", first.Finish)
		assert.InDelta(t, 1.0, first.Thickness, 1e-9)
		assert.InDelta(t, 1250, first.Width, 1e-9)
		assert.InDelta(t, 8.20, first.Price, 1e-9)

		second := parsed.Observations[1]
		assert.Equal(t, 6, second.RowNumber)
		assert.Equal(t, "1.4404", second.Grade)
		assert.InDelta(t, 10.5, second.Price, 1e-9)

		require.Len(t, parsed.Errors, 1)
		assert.Equal(t, 5, parsed.Errors[0].Row)
		assert.Contains(t, parsed.Errors[0].Message, "nieprawidlowa grubosc")
	})

	t.Run("english headers", func(t *testing.T) {
		rows := [][]string{
			{"Grade", "Finish", "Thickness", "Width", "Price"},
			{"1.4301", "2B", "1.0", "1250", "8.20"},
		}

		parsed := parseBaseSheet(rows)

		require.Len(t, parsed.Observations, 1)
		assert.Equal(t, "2B", parsed.Observations[0].Finish)
	})

	t.Run("missing grade column", func(t *testing.T) {
		rows := [][]string{
			{"Kolumna A", "Cena"},
			{"x", "1"},
		}

		parsed := parseBaseSheet(rows)

		assert.True(t, parsed.MissingGradeColumn)
		assert.Empty(t, parsed.Observations)
		assert.Equal(t, []string{"Kolumna A", "Cena"}, parsed.Headers)
	})

	t.Run("empty sheet", func(t *testing.T) {
		parsed := parseBaseSheet(nil)
		assert.True(t, parsed.MissingGradeColumn)
	})
}

func TestParseGrindingExportSheet(t *testing.T) {
	t.Run("mixed rows", func(t *testing.T) {
		rows := [][]string{
			{"Dostawca", "Granulacja", "Grubosc (mm)", "Cena PLN/kg", "Z SB", "Wariant szerokosci"},
			{"CAMU", "K320/K400", "1.0", "2,50", "Nie", "x1000/1250/1500"},
			{"BABCIA", "nan", "2.0", "1.80", "Tak", ""},
			{"NIEZNANY", "K80/K120", "1.0", "2.00", "", ""},
			{"COSTA", "K240/K180", "gruba", "2.00", "", ""},
		}

		parsed := parseGrindingExportSheet(rows)

		assert.False(t, parsed.MissingProviderColumn)
		require.Len(t, parsed.Observations, 2)

		camu := parsed.Observations[0]
		assert.Equal(t, models.ProviderCAMU, camu.Provider)
		require.NotNil(t, camu.Grit)
		assert.Equal(t, models.GritFine, *camu.Grit)
		assert.False(t, camu.WithSB)
		require.NotNil(t, camu.WidthVariant)
		assert.Equal(t, models.WidthVariantNarrow, *camu.WidthVariant)
		assert.InDelta(t, 2.5, camu.Price, 1e-9)

		babcia := parsed.Observations[1]
		assert.Equal(t, models.ProviderBABCIA, babcia.Provider)
		assert.Nil(t, babcia.Grit)
		assert.True(t, babcia.WithSB)
		assert.Nil(t, babcia.WidthVariant)

		require.Len(t, parsed.Errors, 1)
		assert.Equal(t, 5, parsed.Errors[0].Row)
	})

	t.Run("missing provider column", func(t *testing.T) {
		rows := [][]string{
			{"Kolumna", "Cena"},
			{"CAMU", "2.50"},
		}

		parsed := parseGrindingExportSheet(rows)

		assert.True(t, parsed.MissingProviderColumn)
		assert.Empty(t, parsed.Observations)
	})
}

func TestParseGrindingLegacySheet(t *testing.T) {
	rows := [][]string{
		{"DANE SZLIF"},
		{"CAMU", "", ""},
		{"", "K320/K400", "K320/K400 +SB", "SB [zł/kg]"},
		{"1.5", "2.50", "3.10", "1.20"},
		{"2.0", "2.80", "brak", ""},
		{"BABCIA"},
		{"3.0", "9.99"},
		{"", "K240/K180"},
		{"3.0", "4.00"},
	}

	observations := parseGrindingLegacySheet(rows)
	require.Len(t, observations, 5)

	first := observations[0]
	assert.Equal(t, 4, first.RowNumber)
	assert.Equal(t, models.ProviderCAMU, first.Provider)
	require.NotNil(t, first.Grit)
	assert.Equal(t, models.GritFine, *first.Grit)
	assert.False(t, first.WithSB)
	assert.InDelta(t, 1.5, first.Thickness, 1e-9)
	assert.InDelta(t, 2.5, first.Price, 1e-9)

	combinedSB := observations[1]
	require.NotNil(t, combinedSB.Grit)
	assert.Equal(t, models.GritFine, *combinedSB.Grit)
	assert.True(t, combinedSB.WithSB)
	assert.InDelta(t, 3.1, combinedSB.Price, 1e-9)

	plainSB := observations[2]
	assert.Nil(t, plainSB.Grit)
	assert.True(t, plainSB.WithSB)
	assert.InDelta(t, 1.2, plainSB.Price, 1e-9)

	partialRow := observations[3]
	assert.Equal(t, 5, partialRow.RowNumber)
	assert.InDelta(t, 2.0, partialRow.Thickness, 1e-9)
	assert.InDelta(t, 2.8, partialRow.Price, 1e-9)

	babcia := observations[4]
	assert.Equal(t, models.ProviderBABCIA, babcia.Provider)
	require.NotNil(t, babcia.Grit)
	assert.Equal(t, models.GritMedium, *babcia.Grit)
	assert.InDelta(t, 3.0, babcia.Thickness, 1e-9)
	assert.Nil(t, babcia.WidthVariant)
}

func TestGrindingSectionParserGating(t *testing.T) {
	t.Run("rows before any provider banner are ignored", func(t *testing.T) {
		observations := parseGrindingLegacySheet([][]string{
			{"", "K320/K400"},
			{"1.5", "2.50"},
		})
		assert.Empty(t, observations)
	})

	t.Run("provider banner resets the column map", func(t *testing.T) {
		observations := parseGrindingLegacySheet([][]string{
			{"CAMU"},
			{"", "K320/K400"},
			{"COSTA"},
			{"1.5", "2.50"},
		})
		assert.Empty(t, observations)
	})

	t.Run("unknown section label stays idle", func(t *testing.T) {
		observations := parseGrindingLegacySheet([][]string{
			{"DOSTAWCA X"},
			{"", "K320/K400"},
			{"1.5", "2.50"},
		})
		assert.Empty(t, observations)
	})
}

func TestLegacyGritFor(t *testing.T) {
	tests := []struct {
		header   string
		expected *string
	}{
		{"K320/K400", utils.ToPtr(models.GritFine)},
		{"K320/K400 +SB", utils.ToPtr(models.GritFine)},
		{"K240/K180", utils.ToPtr(models.GritMedium)},
		{"K80/K120", utils.ToPtr(models.GritCoarse)},
		{"240/180+SB", nil},
		{"SB [zł/kg]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := legacyGritFor(tt.header)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestLegacyHeaderHasSB(t *testing.T) {
	assert.True(t, legacyHeaderHasSB("K320/K400 +SB"))
	assert.True(t, legacyHeaderHasSB("240/180+SB"))
	assert.True(t, legacyHeaderHasSB("SB [zł/kg]"))
	assert.False(t, legacyHeaderHasSB("K320/K400"))
	assert.False(t, legacyHeaderHasSB("SB"))
}

func TestParseFilmExportSheet(t *testing.T) {
	t.Run("mixed rows", func(t *testing.T) {
		rows := [][]string{
			{"Typ folii", "Grubosc (mm)", "Cena PLN/kg"},
			{"FOLIA_ZWYKLA", "1.0", "0,30"},
			{"folia_fiber", "2.0", "0.45"},
			{"NIEZNANA", "1.0", "0.50"},
			{"Novacel 4228", "gruba", "0.50"},
		}

		parsed := parseFilmExportSheet(rows)

		assert.False(t, parsed.MissingTypeColumn)
		require.Len(t, parsed.Observations, 2)
		assert.Equal(t, models.FilmZwykla, parsed.Observations[0].FilmType)
		assert.InDelta(t, 0.30, parsed.Observations[0].Price, 1e-9)
		assert.Equal(t, models.FilmFiber, parsed.Observations[1].FilmType)

		require.Len(t, parsed.Errors, 1)
		assert.Equal(t, 5, parsed.Errors[0].Row)
	})

	t.Run("missing type column", func(t *testing.T) {
		rows := [][]string{
			{"Kolumna", "Cena"},
			{"FOLIA_ZWYKLA", "0.30"},
		}

		parsed := parseFilmExportSheet(rows)

		assert.True(t, parsed.MissingTypeColumn)
		assert.Empty(t, parsed.Observations)
	})
}

func TestParseFilmLegacySheet(t *testing.T) {
	t.Run("brand columns", func(t *testing.T) {
		rows := [][]string{
			{"CENNIK", ""},
			{"grubosc", "cena FZ", "cena FF", "Novacel 4228"},
			{"1.0", "0,30", "0,45", "0.55"},
			{"gruba", "0.30", "", ""},
			{"2.0", "", "0.50", "x"},
		}

		parsed := parseFilmLegacySheet(rows)

		assert.True(t, parsed.HeaderFound)
		require.Len(t, parsed.Observations, 4)

		assert.Equal(t, models.FilmZwykla, parsed.Observations[0].FilmType)
		assert.Equal(t, 3, parsed.Observations[0].RowNumber)
		assert.InDelta(t, 0.30, parsed.Observations[0].Price, 1e-9)
		assert.Equal(t, models.FilmFiber, parsed.Observations[1].FilmType)
		assert.Equal(t, models.FilmNovacel, parsed.Observations[2].FilmType)

		last := parsed.Observations[3]
		assert.Equal(t, models.FilmFiber, last.FilmType)
		assert.InDelta(t, 2.0, last.Thickness, 1e-9)
	})

	t.Run("no header row", func(t *testing.T) {
		rows := [][]string{
			{"grubosc", "cena"},
			{"1.0", "0.30"},
		}

		parsed := parseFilmLegacySheet(rows)

		assert.False(t, parsed.HeaderFound)
		assert.Empty(t, parsed.Observations)
	})
}
