package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tokworld/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tokworld",
	Short: "TokWorld simulates characters driven by hierarchical state machines",
	Long: `TokWorld runs characters whose behavior is a hierarchical state chart:
a decision branch (rest, work, entertainment) alongside a body branch
(mouth, hands, stomach) that may override it.

Settings come from TOKWORLD_* environment variables; flags override them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("chart", "", "Chart file (YAML or JSON); the built-in TokWorld chart when empty")
	flags.String("world", "", "World manifest (YAML) with maps and characters")
	flags.StringSlice("characters", nil, "Names of the characters to create when no world manifest is given")
	flags.Float64("time-scale", 0, "Game seconds per real second")
	flags.Int("max-cascade", 0, "Cascade passes allowed per tick before a machine faults")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text or json)")
	flags.Bool("debug", false, "Log every state change")
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("chart") {
		cfg.Chart, _ = flags.GetString("chart")
	}
	if flags.Changed("world") {
		cfg.World, _ = flags.GetString("world")
	}
	if flags.Changed("characters") {
		cfg.Characters, _ = flags.GetStringSlice("characters")
	}
	if flags.Changed("time-scale") {
		cfg.TimeScale, _ = flags.GetFloat64("time-scale")
	}
	if flags.Changed("max-cascade") {
		cfg.MaxCascade, _ = flags.GetInt("max-cascade")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Lookup("tick-rate") != nil && flags.Changed("tick-rate") {
		cfg.TickRate, _ = flags.GetDuration("tick-rate")
	}
	if flags.Lookup("redis") != nil && flags.Changed("redis") {
		cfg.Redis.Addr, _ = flags.GetString("redis")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
