package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tokworld/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation and print the world",
	Long: `Ticks the world a fixed number of times and prints a report.

Events set context flags before a tick, as tick:character:flag[=value]:

  tokworld run --ticks 6 --set 2:1:wantsWork --set 4:1:stomachPain --set 6:1:stomachPain=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cli.RunOptions{}
		opts.Ticks, _ = cmd.Flags().GetInt("ticks")
		opts.Delta, _ = cmd.Flags().GetDuration("delta")
		if !cmd.Flags().Changed("delta") {
			opts.Delta = cfg.TickRate
		}
		opts.Every, _ = cmd.Flags().GetBool("every")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Debug, _ = cmd.Flags().GetBool("debug")

		raw, _ := cmd.Flags().GetStringArray("set")
		for _, s := range raw {
			ev, err := cli.ParseEvent(s)
			if err != nil {
				return err
			}
			opts.Events = append(opts.Events, ev)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Run(ctx, cfg, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("ticks", 10, "Number of ticks to run")
	runCmd.Flags().Duration("delta", 0, "Real time fed to the game clock per tick (default: the tick rate)")
	runCmd.Flags().StringArray("set", nil, "Set a flag before a tick: tick:character:flag[=value]")
	runCmd.Flags().Bool("every", false, "Print the world after every tick")
	runCmd.Flags().Bool("json", false, "Print frames as NDJSON")
}
