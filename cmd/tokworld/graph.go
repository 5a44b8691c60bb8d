package main

import (
	"fmt"

	"github.com/aretw0/tokworld"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state chart as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the chart: regions as
subgraphs, default children as stadiums, declared transitions as dotted edges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		eng, err := tokworld.Load(cfg.Chart)
		if err != nil {
			return err
		}
		active, _ := cmd.Flags().GetStringSlice("active")
		out, err := eng.Graph(active)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("active", nil, "Node paths to highlight")
}
