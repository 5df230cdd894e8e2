package models

// Standard sheet dimensions carried by the catalog. Thicknesses are in
// millimeters and follow the supplier ladder from 0.4 up to 50 mm.
var StandardThicknesses = []float64{
	0.4, 0.5, 0.6, 0.7, 0.8, 1.0, 1.2, 1.5, 2.0, 2.5,
	3.0, 4.0, 5.0, 6.0, 8.0, 10.0, 12.0, 15.0, 20.0, 25.0,
	30.0, 40.0, 50.0,
}

// StandardWidths lists the sheet widths (mm) stocked by suppliers.
var StandardWidths = []int{1000, 1250, 1500, 2000}

// StandardLengths lists the sheet lengths (mm) paired with standard widths.
var StandardLengths = []int{2000, 2500, 3000, 6000}

// WidthLengthMap gives the standard sheet length for each standard width.
var WidthLengthMap = map[int]int{
	1000: 2000,
	1250: 2500,
	1500: 3000,
	2000: 6000,
}

// StandardLengthForWidth returns the standard sheet length for a width,
// falling back to width x 2 for non-standard widths.
func StandardLengthForWidth(width int) int {
	if l, ok := WidthLengthMap[width]; ok {
		return l
	}
	return width * 2
}

// GrindingWidthVariant maps a sheet width to the grinding price list variant:
// BORYS quotes one rate for sheets up to 1500 mm and another for 2000 mm.
func GrindingWidthVariant(width float64) string {
	if width <= 1500 {
		return WidthVariantNarrow
	}
	return WidthVariantWide
}
