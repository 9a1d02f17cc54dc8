// ABOUTME: CLI command that starts the MCP server.
// ABOUTME: Serves hydrate tools and resources over stdio.
package main

import (
	"fmt"

	"github.com/harperreed/hydrate/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server speaks MCP over stdio and exposes tools to log water, read
today's progress and the last 7 days, and change the daily goal.

Add to your Claude Desktop config:

  {
    "mcpServers": {
      "hydrate": { "command": "hydrate", "args": ["mcp"] }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(tr, logger)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
