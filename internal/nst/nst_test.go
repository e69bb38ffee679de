package nst

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `<html><body>
<table id="teams">
<thead><tr><th></th><th>Team</th><th>GP</th><th>xGF/60</th><th>xGA/60</th><th>SCF/60</th><th>SCA/60</th></tr></thead>
<tbody>
<tr><td>1</td><td>Boston Bruins</td><td>10</td><td>2.91</td><td>2.40</td><td>29.5</td><td>25.1</td></tr>
<tr><td>2</td><td>Montréal Canadiens</td><td>10</td><td>2.33</td><td>-</td><td>26.0</td><td>27.4</td></tr>
<tr><td>3</td><td>L.A</td><td>10</td><td>2.50</td><td>2.10</td><td>28.0</td><td>24.0</td></tr>
</tbody>
</table>
<table><tr><th>Team</th><th>xGF/60</th></tr><tr><td>Ignored</td><td>9.9</td></tr></table>
</body></html>`

func TestParseTeamTable(t *testing.T) {
	rows, err := ParseTeamTable(strings.NewReader(sampleTable), schema.EvenStrengthAdj)
	require.NoError(t, err)
	require.Len(t, rows, 12)

	byKey := map[string]float64{}
	for _, r := range rows {
		assert.Equal(t, schema.EvenStrengthAdj, r.Situation)
		byKey[r.Team+"/"+string(r.Metric)] = r.Value
	}
	assert.Equal(t, 2.91, byKey["BOS/xgf60"])
	assert.Equal(t, 25.1, byKey["BOS/sca60"])
	assert.Equal(t, 2.33, byKey["MTL/xgf60"])
	assert.True(t, math.IsNaN(byKey["MTL/xga60"]))
	assert.Equal(t, 2.10, byKey["LAK/xga60"])
	assert.NotContains(t, byKey, "IGN/xgf60")
}

func TestParseTeamTableAliases(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"per 60 suffix", "xGA/60"},
		{"compact", "xGA60"},
		{"bare", "xGA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fmt.Sprintf(`<table><tr><th>Team</th><th>%s</th></tr><tr><td>Toronto Maple Leafs</td><td>2.7</td></tr></table>`, tt.header)
			rows, err := ParseTeamTable(strings.NewReader(doc), schema.PowerPlay)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, schema.TeamMetricRow{Team: "TOR", Situation: schema.PowerPlay, Metric: schema.XGA60, Value: 2.7}, rows[0])
		})
	}
}

func TestParseTeamTableErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no table", "<p>maintenance</p>", ErrNoTable.Error()},
		{"no team column", "<table><tr><th>Club</th><th>xGF</th></tr></table>", "no Team column"},
		{"no metrics", "<table><tr><th>Team</th><th>GP</th></tr></table>", "none of the tracked metric columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTeamTable(strings.NewReader(tt.doc), schema.PenaltyKill)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestQueryParams(t *testing.T) {
	sva := QueryParams("20252026", schema.EvenStrengthAdj)
	assert.Equal(t, "20252026", sva.Get("fromseason"))
	assert.Equal(t, "20252026", sva.Get("thruseason"))
	assert.Equal(t, "2", sva.Get("stype"))
	assert.Equal(t, "sva", sva.Get("sit"))
	assert.Equal(t, "y", sva.Get("rate"))
	assert.Equal(t, "B", sva.Get("loc"))
	assert.True(t, sva.Has("fd"))

	pp := QueryParams("20252026", schema.PowerPlay)
	assert.False(t, pp.Has("loc"))
}

func TestClientFetchSituation(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(sampleTable))
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}
	rows, err := client.FetchSituation(context.Background(), "20242025", schema.EvenStrengthAdj)
	require.NoError(t, err)
	assert.Len(t, rows, 12)
	assert.Contains(t, gotQuery, "sit=sva")
	assert.Contains(t, gotQuery, "fromseason=20242025")
}

func TestClientFetchSituationStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}
	_, err := client.FetchSituation(context.Background(), "20252026", schema.PowerPlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewClient(t *testing.T) {
	client := NewClient()
	assert.Equal(t, DefaultBaseURL, client.BaseURL)
	assert.Equal(t, defaultTimeout, client.HTTPClient.Timeout)
}
