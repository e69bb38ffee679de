// Package nst fetches per-60 team rates from the Natural Stat Trick team table.
package nst

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// DefaultBaseURL is the team table endpoint.
const DefaultBaseURL = "https://www.naturalstattrick.com/teamtable.php"

const defaultTimeout = 30 * time.Second

// ErrNoTable means the response held no HTML table.
var ErrNoTable = errors.New("no table found in response")

// columnAliases lists the header names the site has used for each metric, preferred first.
var columnAliases = map[schema.Metric][]string{
	schema.XGF60:  {"xGF/60", "xGF60", "xGF"},
	schema.SCF60:  {"SCF/60", "SCF60", "SCF"},
	schema.HDCF60: {"HDCF/60", "HDCF60", "HDCF"},
	schema.GF60:   {"GF/60", "GF60", "GF"},
	schema.SF60:   {"SF/60", "SF60", "SF"},
	schema.XGA60:  {"xGA/60", "xGA60", "xGA"},
	schema.SCA60:  {"SCA/60", "SCA60", "SCA"},
	schema.HDCA60: {"HDCA/60", "HDCA60", "HDCA"},
	schema.GA60:   {"GA/60", "GA60", "GA"},
	schema.SA60:   {"SA/60", "SA60", "SA"},
}

// Client implements contract.MetricsSource against the team table endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ contract.MetricsSource = &Client{} // Compile-time check

// NewClient returns a client for the public endpoint with a 30 second timeout.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// QueryParams returns the query string for a regular season, per-60 team table.
func QueryParams(season string, situation schema.Situation) url.Values {
	params := url.Values{}
	params.Set("fromseason", season)
	params.Set("thruseason", season)
	params.Set("stype", "2")
	params.Set("sit", string(situation))
	params.Set("score", "all")
	params.Set("rate", "y")
	params.Set("team", "all")
	params.Set("gpf", "410")
	params.Set("fd", "")
	params.Set("td", "")
	if situation == schema.EvenStrengthAdj {
		params.Set("loc", "B")
	}
	return params
}

// FetchSituation downloads and parses one situation's team table.
func (c *Client) FetchSituation(ctx context.Context, season string, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	endpoint := c.BaseURL + "?" + QueryParams(season, situation).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "matchup/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s table: %w", situation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s table: unexpected status %s", situation, resp.Status)
	}

	rows, err := ParseTeamTable(resp.Body, situation)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s table: %w", situation, err)
	}
	if teams := countTeams(rows); teams < contract.MinValidTeams {
		contract.LogWarn(fmt.Sprintf("Season %s %s table looks incomplete", season, situation),
			fmt.Errorf("%d teams, want at least %d", teams, contract.MinValidTeams))
	}
	return rows, nil
}

// ParseTeamTable reads the first HTML table and returns one row per team and
// tracked metric. Unparseable cells become NaN so the team is treated as
// incomplete downstream.
func ParseTeamTable(r io.Reader, situation schema.Situation) ([]schema.TeamMetricRow, error) {
	table, err := parseFirstTable(r)
	if err != nil {
		return nil, err
	}

	teamCol := -1
	for i, h := range table.header {
		if strings.EqualFold(h, "team") {
			teamCol = i
			break
		}
	}
	if teamCol < 0 {
		return nil, errors.New("table has no Team column")
	}

	columns := resolveColumns(table.header)
	if len(columns) == 0 {
		return nil, fmt.Errorf("table has none of the tracked metric columns (have %s)", strings.Join(table.header, ", "))
	}

	var rows []schema.TeamMetricRow
	for _, cells := range table.rows {
		if teamCol >= len(cells) || strings.TrimSpace(cells[teamCol]) == "" {
			continue
		}
		team := teamCode(cells[teamCol])
		for _, metric := range schema.AllMetrics {
			col, ok := columns[metric]
			if !ok {
				continue
			}
			value := math.NaN()
			if col < len(cells) {
				value = parseCell(cells[col])
			}
			rows = append(rows, schema.TeamMetricRow{Team: team, Situation: situation, Metric: metric, Value: value})
		}
	}
	return rows, nil
}

// resolveColumns maps each metric to the index of its first matching alias.
func resolveColumns(header []string) map[schema.Metric]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	columns := make(map[schema.Metric]int)
	for metric, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				columns[metric] = i
				break
			}
		}
	}
	return columns
}

func parseCell(cell string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// teamCode accepts full names as well as dotted codes like "L.A".
func teamCode(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if plain := schema.UndottedCode(upper); plain != upper {
		return plain
	}
	return schema.TeamCodeFromName(name)
}

func countTeams(rows []schema.TeamMetricRow) int {
	teams := make(map[string]struct{})
	for _, r := range rows {
		teams[r.Team] = struct{}{}
	}
	return len(teams)
}
