// Package schedule reads league schedules into double-entry team rows.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// columnAliases lists accepted header names per field, compared case-insensitively.
var columnAliases = map[string][]string{
	"date": {"date", "game_date"},
	"home": {"home", "home_team", "h"},
	"away": {"away", "away_team", "a"},
	"week": {"week", "wk"},
}

// Game is one scheduled game before it is split into team rows.
type Game struct {
	Date time.Time
	Home string
	Away string
	Week int // 0 when the source has no week column
}

// LightNightRule decides which dates count as light nights.
type LightNightRule struct {
	Method   schema.LightNightMethod
	MaxGames int
	Fraction float64
}

// Reader implements contract.ScheduleSource for .xlsx and .csv files.
type Reader struct {
	Path        string
	Sheet       string
	MappingPath string
	WeekStart   time.Weekday
	SeasonStart time.Time
	LightNight  LightNightRule

	validate *validator.Validate
}

var _ contract.ScheduleSource = &Reader{} // Compile-time check

// NewReader builds a reader from the schedule settings of cfg.
func NewReader(cfg *contract.Config) *Reader {
	return &Reader{
		Path:        cfg.SchedulePath,
		Sheet:       cfg.ScheduleSheet,
		MappingPath: cfg.TeamMappingPath,
		WeekStart:   cfg.WeekStartDay,
		SeasonStart: cfg.SeasonStart,
		LightNight: LightNightRule{
			Method:   cfg.LightNightMethod,
			MaxGames: cfg.LightNightMaxGames,
			Fraction: cfg.LightNightFraction,
		},
		validate: validator.New(),
	}
}

// ReadSchedule loads the file and returns one row per game per team, ordered
// by date, then home team, home row first.
func (r *Reader) ReadSchedule(ctx context.Context) ([]schema.ScheduleRow, error) {
	if r.Path == "" {
		return nil, fmt.Errorf("%w: no schedule file configured", contract.ErrConfiguration)
	}
	records, err := readRecords(r.Path, r.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule %s: %w", r.Path, err)
	}

	mapping := map[string]string{}
	if r.MappingPath != "" {
		mapping, err = LoadTeamMapping(r.MappingPath)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Could not load team mapping %s, using built-in city codes", r.MappingPath), err)
			mapping = map[string]string{}
		}
	}

	games, err := ParseGames(records, mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %s: %w", r.Path, err)
	}
	games = r.assignWeeks(games)

	rows := Expand(games, r.LightNight)
	if err := r.validateRows(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseGames turns raw records, header first, into games with mapped team codes.
func ParseGames(records [][]string, mapping map[string]string) ([]Game, error) {
	if len(records) == 0 {
		return nil, errors.New("schedule is empty")
	}
	cols := findColumns(records[0])
	for _, field := range []string{"date", "home", "away"} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("missing %s column (accepted: %s)", field, strings.Join(columnAliases[field], ", "))
		}
	}

	var games []Game
	for i, rec := range records[1:] {
		line := i + 2
		if blankRecord(rec) {
			continue
		}
		date, err := parseDate(cell(rec, cols["date"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		game := Game{
			Date: date,
			Home: schema.TeamCodeFromCity(cell(rec, cols["home"]), mapping),
			Away: schema.TeamCodeFromCity(cell(rec, cols["away"]), mapping),
		}
		if idx, ok := cols["week"]; ok {
			game.Week, err = parseWeek(cell(rec, idx))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
		}
		games = append(games, game)
	}
	return games, nil
}

// WeekOf returns the 1-indexed week of date, counting from the week start day
// on or before seasonStart. Dates before that day return 0.
func WeekOf(date, seasonStart time.Time, weekStart time.Weekday) int {
	anchor := startOfWeek(seasonStart, weekStart)
	days := int(dateOnly(date).Sub(anchor).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

func startOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	d := dateOnly(t)
	back := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDate(0, 0, -back)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// assignWeeks derives missing weeks and drops games dated before the first week.
func (r *Reader) assignWeeks(games []Game) []Game {
	kept := games[:0]
	var dropped int
	for _, g := range games {
		if g.Week == 0 {
			g.Week = WeekOf(g.Date, r.SeasonStart, r.WeekStart)
			if g.Week < 1 {
				dropped++
				continue
			}
		}
		kept = append(kept, g)
	}
	if dropped > 0 {
		contract.LogWarn("Skipping games dated before the season start",
			fmt.Errorf("%d games before %s", dropped, r.SeasonStart.Format(contract.DateFormat)))
	}
	return kept
}

// Expand splits games into home and away rows and flags light nights.
func Expand(games []Game, rule LightNightRule) []schema.ScheduleRow {
	light := LightNights(games, rule)
	sorted := make([]Game, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Home < sorted[j].Home
	})

	rows := make([]schema.ScheduleRow, 0, 2*len(sorted))
	for _, g := range sorted {
		isLight := light[dateOnly(g.Date)]
		rows = append(rows,
			schema.ScheduleRow{Team: g.Home, Opponent: g.Away, Week: g.Week, Date: g.Date, IsHome: true, LightNight: isLight},
			schema.ScheduleRow{Team: g.Away, Opponent: g.Home, Week: g.Week, Date: g.Date, IsHome: false, LightNight: isLight},
		)
	}
	return rows
}

// LightNights returns the dates whose game count makes them light nights.
// by_games_threshold: games <= MaxGames. by_fraction_of_teams: games < Fraction
// times half the number of distinct teams in the schedule.
func LightNights(games []Game, rule LightNightRule) map[time.Time]bool {
	perDay := make(map[time.Time]int)
	teams := make(map[string]struct{})
	for _, g := range games {
		perDay[dateOnly(g.Date)]++
		teams[g.Home] = struct{}{}
		teams[g.Away] = struct{}{}
	}

	threshold := rule.Fraction * float64(len(teams)) / 2
	light := make(map[time.Time]bool, len(perDay))
	for day, n := range perDay {
		switch rule.Method {
		case schema.ByFractionOfTeams:
			light[day] = float64(n) < threshold
		default:
			light[day] = n <= rule.MaxGames
		}
	}
	return light
}

func (r *Reader) validateRows(ctx context.Context, rows []schema.ScheduleRow) error {
	v := r.validate
	if v == nil {
		v = validator.New()
	}
	var errs []error
	for _, row := range rows {
		if err := v.StructCtx(ctx, row); err != nil {
			errs = append(errs, fmt.Errorf("%s vs %s on %s: %w",
				row.Team, row.Opponent, row.Date.Format(contract.DateFormat), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid schedule rows: %w", errors.Join(errs...))
	}
	return nil
}

func findColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	cols := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
