package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/lenna/internal/handlers/mcpserver"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve lookups as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		srv, err := mcpserver.New(&mcpserver.ServerConfig{LookupService: a.lookup, Version: version})
		if err != nil {
			return err
		}

		slog.Info("MCP server listening on stdio")
		return srv.ServeStdio()
	},
}
