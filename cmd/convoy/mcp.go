package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/convoy/internal/cli"
	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the agency as an MCP Server.
This lets MCP clients (like Claude Desktop) drive conversations as tool calls.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.RunOptions{}
		opts.AgencyPath, _ = cmd.Flags().GetString("agency")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.Debug, _ = cmd.Flags().GetBool("debug")

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger := logging.New(slog.LevelInfo)
		slog.SetDefault(logger)

		app, err := cli.BuildApp(opts, logger)
		if err != nil {
			log.Fatalf("Error initializing convoy: %v", err)
		}

		srv := mcp.NewServer(app.Runner, app.Sessions, app.Agency)

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			slog.Info("Starting Convoy MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Convoy MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP Server execution failed", "err", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
