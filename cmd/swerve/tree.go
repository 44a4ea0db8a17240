package main

import (
	"os"

	"github.com/aretw0/swerve/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the frame tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openModel(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		snap, err := m.Snapshot()
		if err != nil {
			return err
		}

		profile := termenv.Ascii
		if cmd.OutOrStdout() == os.Stdout {
			profile = tui.ProfileFor(os.Stdout)
		}
		return tui.RenderTree(cmd.OutOrStdout(), snap, profile)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
