package cmd

import (
	"github.com/puckline/matchup/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Matchup MCP server",
	Long:  `Launch an MCP server that allows AI agents to look up team scores and schedule strength via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Handlers run quietly so stdio stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
