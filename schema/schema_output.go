package schema

import "sort"

// RankedTeamScore adds presentation data to a TeamScore.
type RankedTeamScore struct {
	Rank int `json:"rank"`
	TeamScore
}

// ScoreTableFromComposites builds the per-team table from composite scores.
func ScoreTableFromComposites(scores []CompositeScore) ScoreTable {
	table := make(ScoreTable, len(scores))
	for _, s := range scores {
		table[s.Team] = TeamScore{Team: s.Team, Kind: s.Kind, Score: s.Scaled, Tier: s.Tier}
	}
	return table
}

// ScoreTableFromBlended builds the per-team table from blended scores.
func ScoreTableFromBlended(scores []BlendedScore) ScoreTable {
	table := make(ScoreTable, len(scores))
	for _, s := range scores {
		table[s.Team] = TeamScore{Team: s.Team, Kind: s.Kind, Score: s.Value, Tier: s.Tier}
	}
	return table
}

// Ranked returns the table sorted by descending score, ties broken by team code.
func (t ScoreTable) Ranked() []RankedTeamScore {
	scores := make([]TeamScore, 0, len(t))
	for _, s := range t {
		scores = append(scores, s)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Team < scores[j].Team
	})
	output := make([]RankedTeamScore, len(scores))
	for i, s := range scores {
		output[i] = RankedTeamScore{Rank: i + 1, TeamScore: s}
	}
	return output
}
