package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/doceval/internal/adapters/driven/config/file"
	"github.com/custodia-labs/doceval/internal/adapters/driving/mcp"
	"github.com/custodia-labs/doceval/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

While the server runs, the rules file is watched and changes are applied
without a restart.

Examples:
  # Stdio mode (default, for Claude Desktop)
  doceval mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  doceval mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "doceval": {
        "command": "/path/to/doceval",
        "args": ["mcp", "serve"]
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

	ports := &mcp.Ports{
		Document: documentService,
		Rules:    ruleRegistry,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if rulesFile != "" && ruleRegistry != nil {
		watcher := file.NewRulesWatcher(rulesFile, ruleRegistry)
		if err := watcher.Start(cmd.Context()); err != nil {
			logger.Warn("Rules file %s not watched: %v", rulesFile, err)
		} else {
			defer watcher.Close() //nolint:errcheck
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
