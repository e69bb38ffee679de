package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/puckline/matchup/core"
	"github.com/puckline/matchup/internal/contract"
	"github.com/puckline/matchup/schema"
)

// Backends the tools call into; replaced in tests.
type (
	scoresFunc   func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RankedTeamScore, error)
	matchupsFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Lookups, []schema.TeamWeekRow, error)
)

var (
	defaultScores   scoresFunc   = core.GetTeamScores
	defaultMatchups matchupsFunc = core.GetMatchups
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	scores  scoresFunc
	matches matchupsFunc
}

// matchupsResult is the JSON payload of get_matchups.
type matchupsResult struct {
	Team      string               `json:"team"`
	Week      int                  `json:"week,omitempty"`
	Lookups   schema.Lookups       `json:"lookups"`
	TeamWeeks []schema.TeamWeekRow `json:"team_weeks"`
}

func (h *toolHandler) handleGetTeamScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if k := request.GetString("kind", ""); k != "" {
		kind := schema.Kind(strings.ToLower(k))
		if _, ok := schema.ValidKinds[kind]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid kind '%s': must be defense or offense", k)), nil
		}
		cfg.Kind = kind
	}
	if cfg.Kind == "" {
		cfg.Kind = schema.Defense
	}
	if l := request.GetInt("limit", 0); l != 0 {
		if l < 0 || l > contract.MaxLimit {
			return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", contract.MaxLimit)), nil
		}
		cfg.Limit = l
	}

	ranked, err := h.scores(core.WithQuiet(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rating failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMatchups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Team = schema.UndottedCode(request.GetString("team", ""))
	if cfg.Team == "" {
		return mcp.NewToolResultError("team is required"), nil
	}
	week := request.GetInt("week", 0)
	if week < 0 {
		return mcp.NewToolResultError("week must be at least 1"), nil
	}
	cfg.Week = week

	lookups, teamWeeks, err := h.matches(core.WithQuiet(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if len(lookups.Defense) == 0 && len(lookups.Offense) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no scheduled games for %s", cfg.Team)), nil
	}

	jsonData, _ := json.MarshalIndent(matchupsResult{
		Team:      cfg.Team,
		Week:      week,
		Lookups:   lookups,
		TeamWeeks: teamWeeks,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
