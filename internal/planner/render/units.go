package render

import (
	"fmt"

	"planner/internal/planner/models"
)

const (
	feetPerMeter       = 3.280839895
	squareFeetPerMeter = feetPerMeter * feetPerMeter
)

// FormatLength prints a length given in meters in the document's units.
func FormatLength(meters float64, units models.Units) string {
	if units == models.UnitsImperial {
		return fmt.Sprintf("%.2f ft", meters*feetPerMeter)
	}
	return fmt.Sprintf("%.2f m", meters)
}

// FormatArea prints an area given in square meters in the document's units.
func FormatArea(sqm float64, units models.Units) string {
	if units == models.UnitsImperial {
		return fmt.Sprintf("%.1f ft²", sqm*squareFeetPerMeter)
	}
	return fmt.Sprintf("%.2f m²", sqm)
}
