package outwriter

import (
	"strconv"

	"github.com/puckline/matchup/internal/contract"
)

// formatOptional renders a missing value as an empty cell.
func formatOptional(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

// optionalCell is the xlsx counterpart of formatOptional.
func optionalCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// formatLabel colors a tier or matchup label when colors are enabled.
func formatLabel(label string, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(label)
	}
	return label
}

// formatVenue renders the home flag for tables.
func formatVenue(isHome bool) string {
	if isHome {
		return "Home"
	}
	return "Away"
}

// formatFlag renders a boolean as a short marker for tables.
func formatFlag(v bool) string {
	if v {
		return "✓"
	}
	return ""
}

// formatBool renders a boolean for csv output.
func formatBool(v bool) string {
	return strconv.FormatBool(v)
}
