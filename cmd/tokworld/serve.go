package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tokworld/internal/cli"
	"github.com/aretw0/tokworld/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the world in real time behind an HTTP API",
	Long: `Ticks the world at the configured rate and serves the HTTP API:
characters, flags, travel, graphs, an SSE frame stream and /metrics.
With a Redis address every frame is also published there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, cfg, debug)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Duration("tick-rate", 0, "Real time between ticks")
	serveCmd.Flags().String("redis", "", "Redis address for the frame feed")
}
