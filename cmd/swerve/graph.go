package main

import (
	"fmt"

	"github.com/aretw0/swerve/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the frame tree visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the frame tree. With --from and --to
the frames a transform query walks through are highlighted.`,
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

		var overlay *graph.GraphOverlay
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from != "" && to != "" {
			nodes, err := snap.Path(from, to)
			if err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{PathNodes: nodes, Focus: from}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(snap, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("from", "", "Highlight the path starting at this frame")
	graphCmd.Flags().String("to", "", "Highlight the path ending at this frame")
}
