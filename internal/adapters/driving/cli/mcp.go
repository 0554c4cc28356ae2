package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/adapters/driving/mcp"
	"github.com/custodia-labs/vecsync/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
the vault and resync notes.

Tools:
  search         semantic search, {query, limit}
  sync_document  resync one note from the vault, {path}

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  vecsync mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  vecsync mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "vecsync": {
        "command": "/path/to/vecsync",
        "args": ["mcp", "serve", "--vault", "/path/to/notes"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search: searchService,
		Sync:   syncService,
		Source: documentSource,
	})
	if err != nil {
		return err
	}
	logger.Debug("mcp tools: %v", server.Tools())

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
