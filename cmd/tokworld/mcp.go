package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tokworld/internal/cli"
	"github.com/aretw0/tokworld/pkg/adapters/mcp"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/observability"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the world as MCP tools so agents can inspect characters,
set flags and advance time. The world only moves when the tick tool is called.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		debug, _ := cmd.Flags().GetBool("debug")

		logger, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		// Keep stdout free for JSON-RPC.
		log.SetOutput(os.Stderr)

		var hooks domain.LifecycleHooks
		if debug {
			hooks = observability.LoggingHooks(logger)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng, mgr, err := cli.NewWorld(ctx, cfg, logger, hooks)
		if err != nil {
			return err
		}
		mgr.Clock().Start()
		srv := mcp.NewServer(mgr, eng)

		switch transport {
		case "stdio":
			slog.Info("Starting TokWorld MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			if err := srv.ServeSSE(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
