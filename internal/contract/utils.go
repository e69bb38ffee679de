package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/puckline/matchup/schema"
)

// Color variables for console output.
var (
	EliteColor   = color.New(color.FgRed, color.Bold)     // EliteColor marks the toughest opponents.
	StrongColor  = color.New(color.FgMagenta, color.Bold) // StrongColor marks above-average opponents.
	AverageColor = color.New(color.FgYellow)              // AverageColor is standard caution, not bold.
	WeakColor    = color.New(color.FgCyan)                // WeakColor marks below-average opponents.
	PoorColor    = color.New(color.FgGreen)               // PoorColor marks the easiest opponents.
	UnknownColor = color.New(color.Faint)                 // UnknownColor marks rows without a score.
)

// labelColors maps tier and matchup labels to their console color.
var labelColors = map[string]*color.Color{
	"Elite":            EliteColor,
	"Strong":           StrongColor,
	"Average":          AverageColor,
	"Weak":             WeakColor,
	"Poor":             PoorColor,
	"Difficult":        EliteColor,
	"Good":             WeakColor,
	"Excellent":        PoorColor,
	schema.TierUnknown: UnknownColor,
}

// GetColorLabel returns a colored tier or matchup label for console output (table).
// Labels without a known color are returned unchanged.
func GetColorLabel(label string) string {
	if c, ok := labelColors[label]; ok {
		return c.Sprint(label)
	}
	return label
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs a progress message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for metric cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".matchup_cache.db"
	}
	return filepath.Join(homeDir, ".matchup_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".matchup_history.db"
	}
	return filepath.Join(homeDir, ".matchup_history.db")
}

// FormatTeam renders a team code, optionally in dotted form.
func FormatTeam(team string, dotted bool) string {
	if dotted {
		return schema.DottedCode(team)
	}
	return team
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
