package schema

import (
	"sort"
	"sync"
)

// teamNamePrefixes maps lowercased stats-site team names to NHL codes.
var teamNamePrefixes = map[string]string{
	"anaheim":            "ANA",
	"arizona":            "ARI",
	"boston":             "BOS",
	"buffalo":            "BUF",
	"calgary":            "CGY",
	"carolina":           "CAR",
	"chicago":            "CHI",
	"colorado":           "COL",
	"columbus":           "CBJ",
	"dallas":             "DAL",
	"detroit":            "DET",
	"edmonton":           "EDM",
	"florida":            "FLA",
	"los angeles":        "LAK",
	"minnesota":          "MIN",
	"montreal":           "MTL",
	"nashville":          "NSH",
	"new jersey":         "NJD",
	"ny islanders":       "NYI",
	"new york islanders": "NYI",
	"ny rangers":         "NYR",
	"new york rangers":   "NYR",
	"ottawa":             "OTT",
	"philadelphia":       "PHI",
	"pittsburgh":         "PIT",
	"san jose":           "SJS",
	"seattle":            "SEA",
	"st. louis":          "STL",
	"st louis":           "STL",
	"tampa bay":          "TBL",
	"toronto":            "TOR",
	"utah":               "UTA",
	"vancouver":          "VAN",
	"vegas":              "VGK",
	"washington":         "WSH",
	"winnipeg":           "WPG",
}

// scheduleCityCodes maps upper-cased schedule city names to NHL codes.
var scheduleCityCodes = map[string]string{
	"ANAHEIM":            "ANA",
	"BOSTON":             "BOS",
	"BUFFALO":            "BUF",
	"CALGARY":            "CGY",
	"CAROLINA":           "CAR",
	"CHICAGO":            "CHI",
	"COLORADO":           "COL",
	"COLUMBUS":           "CBJ",
	"DALLAS":             "DAL",
	"DETROIT":            "DET",
	"EDMONTON":           "EDM",
	"FLORIDA":            "FLA",
	"LOS ANGELES":        "LAK",
	"MINNESOTA":          "MIN",
	"MONTREAL":           "MTL",
	"NASHVILLE":          "NSH",
	"NEW JERSEY":         "NJD",
	"NEW YORK ISLANDERS": "NYI",
	"NEW YORK RANGERS":   "NYR",
	"OTTAWA":             "OTT",
	"PHILADELPHIA":       "PHI",
	"PITTSBURGH":         "PIT",
	"SAN JOSE":           "SJS",
	"SEATTLE":            "SEA",
	"ST. LOUIS":          "STL",
	"TAMPA BAY":          "TBL",
	"TORONTO":            "TOR",
	"UTAH":               "UTA",
	"VANCOUVER":          "VAN",
	"VEGAS":              "VGK",
	"WASHINGTON":         "WSH",
	"WINNIPEG":           "WPG",
}

// dottedCodes maps NHL codes to the dotted form used by the stats site.
var dottedCodes = map[string]string{
	"LAK": "L.A",
	"TBL": "T.B",
	"SJS": "S.J",
	"NJD": "N.J",
}

var (
	// prefixOrderGlobal holds teamNamePrefixes keys, longest first.
	prefixOrderGlobal []string

	// undottedCodesGlobal is the inverse of dottedCodes.
	undottedCodesGlobal map[string]string

	prefixOnce   sync.Once
	undottedOnce sync.Once
)

// getPrefixOrder returns the team name prefixes so that longer names match first.
func getPrefixOrder() []string {
	prefixOnce.Do(func() {
		prefixOrderGlobal = make([]string, 0, len(teamNamePrefixes))
		for k := range teamNamePrefixes {
			prefixOrderGlobal = append(prefixOrderGlobal, k)
		}
		sort.Slice(prefixOrderGlobal, func(i, j int) bool {
			if len(prefixOrderGlobal[i]) != len(prefixOrderGlobal[j]) {
				return len(prefixOrderGlobal[i]) > len(prefixOrderGlobal[j])
			}
			return prefixOrderGlobal[i] < prefixOrderGlobal[j]
		})
	})
	return prefixOrderGlobal
}

// getUndottedCodes returns the dotted to plain code map.
func getUndottedCodes() map[string]string {
	undottedOnce.Do(func() {
		undottedCodesGlobal = make(map[string]string, len(dottedCodes))
		for plain, dotted := range dottedCodes {
			undottedCodesGlobal[dotted] = plain
		}
	})
	return undottedCodesGlobal
}
