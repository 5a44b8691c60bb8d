package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tokworld"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tokworld",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tokworld version %s\n", strings.TrimSpace(tokworld.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
