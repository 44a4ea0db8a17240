package main

import (
	"fmt"
	"os"

	"github.com/aretw0/swerve/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the model as a markdown report",
	Long:  `Prints a table of frames and the position of every wheel in the root frame.`,
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
		md, err := tui.Describe(m.Name, snap)
		if err != nil {
			return err
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		render, err := tui.NewRenderer(cmd.OutOrStdout() == os.Stdout && tui.IsTerminal(os.Stdout))
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
}
