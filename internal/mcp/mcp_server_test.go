package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/puckline/matchup/internal/contract"
	mcp_internal "github.com/puckline/matchup/internal/mcp"
	"github.com/puckline/matchup/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		Season:     "20252026",
		Kind:       schema.Defense,
		Limit:      contract.DefaultLimit,
		TotalWeeks: contract.DefaultTotalWeeks,
	}

	// Validation fails before any metrics are requested
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantMsg string
	}{
		{"get_team_scores invalid kind", "get_team_scores", map[string]any{"kind": "goalie"}, "invalid kind 'goalie'"},
		{"get_team_scores limit too high", "get_team_scores", map[string]any{"limit": 500.0}, "limit must be between 1 and 100"},
		{"get_team_scores negative limit", "get_team_scores", map[string]any{"limit": -3.0}, "limit must be between 1 and 100"},
		{"get_matchups missing team", "get_matchups", map[string]any{"team": ""}, "team is required"},
		{"get_matchups negative week", "get_matchups", map[string]any{"team": "BOS", "week": -1.0}, "week must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := s.GetTool(tt.tool)
			require.NotNil(t, tool, "Tool %s should exist", tt.tool)

			req := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name:      tt.tool,
					Arguments: tt.args,
				},
			}

			res, err := tool.Handler(ctx, req)
			require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, res.Content[0].(mcp.TextContent).Text, tt.wantMsg)
		})
	}
}

func TestMCPServerTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(&contract.Config{}, nil)
	for _, name := range []string{"get_team_scores", "get_matchups"} {
		assert.NotNil(t, s.GetTool(name), name)
	}
	assert.Nil(t, s.GetTool("compare_hotspots"))
}
