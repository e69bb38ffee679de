// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/puckline/matchup/internal/contract"
)

// NewMCPServer initializes and configures the Matchup MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Matchup Rating Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		scores:  defaultScores,
		matches: defaultMatchups,
	}

	// --- 1. Tool: get_team_scores ---
	s.AddTool(mcp.NewTool("get_team_scores",
		mcp.WithDescription("Rate every NHL team on a 0-100 scale from weighted per-60 metrics, ranked from strongest to weakest."),
		mcp.WithString("kind", mcp.Description("Composite kind (defense, offense). Defaults to 'defense'."), mcp.Enum("defense", "offense")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of teams returned.")),
	), h.handleGetTeamScores)

	// --- 2. Tool: get_matchups ---
	s.AddTool(mcp.NewTool("get_matchups",
		mcp.WithDescription("Look up a team's scheduled opponents with their scores, plus the weekly strength of schedule."),
		mcp.WithString("team", mcp.Description("Team code such as BOS or L.A."), mcp.Required()),
		mcp.WithNumber("week", mcp.Description("Schedule week to narrow the results to (all weeks when omitted).")),
	), h.handleGetMatchups)

	return s
}

// StartMCPServer starts the Matchup MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
