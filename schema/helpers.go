package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownTeam is the code given to a blank team name.
const UnknownTeam = "UNK"

// firstLetters returns the first n runes of s, upper-cased.
func firstLetters(s string, n int) string {
	rr := []rune(strings.ToUpper(strings.TrimSpace(s)))
	if len(rr) > n {
		rr = rr[:n]
	}
	return string(rr)
}

// FoldTeamName lowercases a team name and removes the accents seen in team names.
func FoldTeamName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("é", "e", "è", "e").Replace(n)
}

// TeamCodeFromName maps a stats-site team name like "Montréal Canadiens" to "MTL".
// Unknown names fall back to their first three letters.
func TeamCodeFromName(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnknownTeam
	}
	folded := FoldTeamName(name)
	for _, prefix := range getPrefixOrder() {
		if strings.HasPrefix(folded, prefix) {
			return teamNamePrefixes[prefix]
		}
	}
	return firstLetters(name, 3)
}

// TeamCodeFromCity maps a schedule city like "Los Angeles" to "LAK".
// The mapping argument takes priority over the built-in table and is keyed by
// upper-cased city. Dotted codes such as "L.A" are accepted. Unknown cities
// fall back to their first three letters.
func TeamCodeFromCity(city string, mapping map[string]string) string {
	key := strings.ToUpper(strings.TrimSpace(city))
	if key == "" {
		return UnknownTeam
	}
	if code, ok := mapping[key]; ok {
		return code
	}
	if code, ok := scheduleCityCodes[key]; ok {
		return code
	}
	if code, ok := getUndottedCodes()[key]; ok {
		return code
	}
	return firstLetters(key, 3)
}

// DottedCode converts a code to the stats-site dotted form, e.g. "LAK" to "L.A".
func DottedCode(team string) string {
	t := strings.ToUpper(strings.TrimSpace(team))
	if dotted, ok := dottedCodes[t]; ok {
		return dotted
	}
	return t
}

// UndottedCode reverses DottedCode.
func UndottedCode(team string) string {
	t := strings.ToUpper(strings.TrimSpace(team))
	if plain, ok := getUndottedCodes()[t]; ok {
		return plain
	}
	return t
}

// PriorSeason returns the label of the season before, e.g. "20252026" to "20242025".
func PriorSeason(season string) (string, error) {
	if len(season) != 8 {
		return "", fmt.Errorf("season %q must look like 20252026", season)
	}
	y1, err := strconv.Atoi(season[:4])
	if err != nil {
		return "", fmt.Errorf("season %q has an invalid start year: %w", season, err)
	}
	y2, err := strconv.Atoi(season[4:])
	if err != nil {
		return "", fmt.Errorf("season %q has an invalid end year: %w", season, err)
	}
	return fmt.Sprintf("%04d%04d", y1-1, y2-1), nil
}

// FormatOpponents joins opponent codes as "BOS, TOR".
func FormatOpponents(opponents []string) string {
	return strings.Join(opponents, ", ")
}
