// Package outwriter renders lookups, team weeks, score tables, diagnostics and weights.
package outwriter

import (
	"os"

	"github.com/puckline/matchup/internal/contract"
	"golang.org/x/term"
)

// getTerminalWidth returns the width override, the detected terminal width,
// or 80 when neither is available.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	return detectedWidth
}

// getMaxOpponentsWidth calculates the maximum width of the opponents column
// in the team-week table.
func getMaxOpponentsWidth(cfg *contract.Config) int {
	// Team + Week + Games + Light + SOS + Off SOS + MatchUp with borders/padding
	baseWidth := 70

	available := getTerminalWidth(cfg) - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
