package display

import (
	"fmt"
	"strconv"

	"github.com/pulsestation/pulse/internal/series"
)

// Percent formats v with two decimals, e.g. "20.00%".
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Megabytes formats v with two decimals, e.g. "80.00 MB".
func Megabytes(v float64) string {
	return fmt.Sprintf("%.2f MB", v)
}

// CelsiusRaw formats v with the shortest exact representation, e.g. "70°C"
// or "70.5°C". Used for the latest temperature sample.
func CelsiusRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}

// Celsius formats v with two decimals, e.g. "65.00°C".
func Celsius(v float64) string {
	return fmt.Sprintf("%.2f°C", v)
}

// Format renders a value for its unit. Latest temperatures keep their raw
// precision; everything else uses two decimals.
func Format(unit string, v float64, average bool) string {
	switch unit {
	case series.UnitPercent:
		return Percent(v)
	case series.UnitMegabytes:
		return Megabytes(v)
	case series.UnitCelsius:
		if average {
			return Celsius(v)
		}
		return CelsiusRaw(v)
	case "":
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.2f %s", v, unit)
	}
}
