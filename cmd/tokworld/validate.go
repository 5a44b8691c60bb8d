package main

import (
	"fmt"

	"github.com/aretw0/tokworld"
	"github.com/aretw0/tokworld/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [chart]",
	Short: "Check a chart for consistency",
	Long:  `Checks the tree structure and every behavior binding, and reports all problems at once.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("chart")
		if len(args) > 0 {
			path = args[0]
		}

		chart := tokworld.DefaultChart()
		if path != "" {
			var err error
			if chart, err = schema.Load(path); err != nil {
				return err
			}
		}

		errs := tokworld.Check(chart, nil)
		if len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", err)
			}
			return fmt.Errorf("validation failed: %d problem(s)", len(errs))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Chart %q is valid! ✅\n", chart.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
