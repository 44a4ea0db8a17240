package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the description for consistency",
	Long: `Builds the model from the description and verifies that every frame is
reachable from a single root, with matching dimensionality on every edge.

Unless --frames-only is set it also checks the swerve layout: at least two
wheels spinning about Y, each under exactly one steering frame turning
about Z, and no steering frame without a wheel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		framesOnly, _ := cmd.Flags().GetBool("frames-only")

		m, err := openModel(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		defer m.Close()

		if err := m.CheckInvariants(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		wheels := ""
		if !framesOnly {
			snap, err := m.Snapshot()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if err := snap.CheckSwerve(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			wheels = fmt.Sprintf(", %d wheels", len(snap.Wheels()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Model %q is valid! ✅ (%d frames%s)\n", m.Name, m.Len(), wheels)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("frames-only", false, "Only check the frame tree, not the swerve layout")
}
