package main

import (
	"fmt"

	"github.com/aretw0/swerve"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of swerve",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "swerve version %s\n", swerve.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
