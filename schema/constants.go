package schema

// Custom string types for type safety.
type (
	// Situation represents the game state a metric was measured under.
	Situation string

	// Metric represents a tracked per-60 team rate.
	Metric string

	// Kind represents which side of the puck a composite describes.
	Kind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// LightNightMethod represents how light nights are detected in a schedule.
	LightNightMethod string
)

// All situations supported. The values match the source's sit parameter.
const (
	EvenStrengthAdj Situation = "sva" // 5v5 score and venue adjusted
	PowerPlay       Situation = "pp"
	PenaltyKill     Situation = "pk"
)

// Offensive metrics ("for" rates).
const (
	XGF60  Metric = "xgf60"
	SCF60  Metric = "scf60"
	HDCF60 Metric = "hdcf60"
	GF60   Metric = "gf60"
	SF60   Metric = "sf60"
)

// Defensive metrics ("against" rates).
const (
	XGA60  Metric = "xga60"
	SCA60  Metric = "sca60"
	HDCA60 Metric = "hdca60"
	GA60   Metric = "ga60"
	SA60   Metric = "sa60"
)

// All composite kinds supported.
const (
	Defense Kind = "defense"
	Offense Kind = "offense"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All light night methods supported.
const (
	ByGamesThreshold  LightNightMethod = "by_games_threshold" // default
	ByFractionOfTeams LightNightMethod = "by_fraction_of_teams"
)

// AllSituations lists situations in their canonical order.
var AllSituations = []Situation{EvenStrengthAdj, PowerPlay, PenaltyKill}

// AllKinds lists composite kinds in their canonical order.
var AllKinds = []Kind{Defense, Offense}

// OffenseMetrics lists the "for" metrics in weight order.
var OffenseMetrics = []Metric{XGF60, SCF60, HDCF60, GF60, SF60}

// DefenseMetrics lists the "against" metrics in weight order.
var DefenseMetrics = []Metric{XGA60, SCA60, HDCA60, GA60, SA60}

// AllMetrics lists every tracked metric.
var AllMetrics = append(append([]Metric{}, OffenseMetrics...), DefenseMetrics...)

// ValidSituations lists all valid situations.
var ValidSituations = map[Situation]struct{}{
	EvenStrengthAdj: {},
	PowerPlay:       {},
	PenaltyKill:     {},
}

// ValidMetrics lists all valid metrics.
var ValidMetrics = map[Metric]struct{}{
	XGF60: {}, SCF60: {}, HDCF60: {}, GF60: {}, SF60: {},
	XGA60: {}, SCA60: {}, HDCA60: {}, GA60: {}, SA60: {},
}

// ValidKinds lists all valid composite kinds.
var ValidKinds = map[Kind]struct{}{
	Defense: {},
	Offense: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLightNightMethods lists all valid light night methods.
var ValidLightNightMethods = map[LightNightMethod]struct{}{
	ByGamesThreshold:  {},
	ByFractionOfTeams: {},
}

// MetricsForKind returns the metrics a composite of the given kind is built from.
func MetricsForKind(kind Kind) []Metric {
	if kind == Offense {
		return OffenseMetrics
	}
	return DefenseMetrics
}

// Label returns the display name used by the stats source, e.g. "xGF/60".
func (m Metric) Label() string {
	switch m {
	case XGF60:
		return "xGF/60"
	case SCF60:
		return "SCF/60"
	case HDCF60:
		return "HDCF/60"
	case GF60:
		return "GF/60"
	case SF60:
		return "SF/60"
	case XGA60:
		return "xGA/60"
	case SCA60:
		return "SCA/60"
	case HDCA60:
		return "HDCA/60"
	case GA60:
		return "GA/60"
	case SA60:
		return "SA/60"
	default:
		return string(m)
	}
}

// Label returns a human readable name for the situation.
func (s Situation) Label() string {
	switch s {
	case EvenStrengthAdj:
		return "5v5 (score & venue adj.)"
	case PowerPlay:
		return "Power play"
	case PenaltyKill:
		return "Penalty kill"
	default:
		return string(s)
	}
}
