package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/swerve"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/spf13/cobra"
)

var transformCmd = &cobra.Command{
	Use:   "transform <from> <to>",
	Short: "Print the transform between two frames",
	Long: `Prints the homogeneous matrix that maps coordinates in <from> into <to>.

Joint values can be set first with --joint id=value (degrees for revolute
joints, meters for prismatic ones). With --point the mapped point is printed
as well.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openModel(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		joints, _ := cmd.Flags().GetStringArray("joint")
		if err := setJoints(m, joints); err != nil {
			return err
		}

		t, err := m.TransformBetween(args[0], args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s -> %s\n", args[0], args[1])
		n := int(t.Dim()) + 1
		for i := 0; i < n; i++ {
			row := make([]string, n)
			for j := range row {
				row[j] = fmt.Sprintf("%9.4f", clean(t.At(i, j)))
			}
			fmt.Fprintln(out, strings.Join(row, " "))
		}

		if !cmd.Flags().Changed("point") {
			return nil
		}
		p, _ := cmd.Flags().GetFloat64Slice("point")
		mapped, err := space.Apply(t, p)
		if err != nil {
			return err
		}
		coords := make([]string, len(mapped))
		for i, c := range mapped {
			coords[i] = strconv.FormatFloat(clean(c), 'f', 4, 64)
		}
		fmt.Fprintf(out, "point: (%s)\n", strings.Join(coords, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringArray("joint", nil, "Set a joint before the query, as id=value (repeatable)")
	transformCmd.Flags().Float64Slice("point", nil, "Map this point from <from> into <to>, e.g. --point 1,0,0")
}

// setJoints applies id=value assignments. Revolute values are degrees.
func setJoints(m *swerve.Model, assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}
	snap, err := m.Snapshot()
	if err != nil {
		return err
	}
	for _, a := range assignments {
		id, raw, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("invalid --joint %q: want id=value", a)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid --joint %q: %w", a, err)
		}
		node, ok := snap.Node(id)
		if !ok {
			return fmt.Errorf("--joint %q: %w", id, domain.ErrUnknownIdentity)
		}
		if node.Joint != nil && node.Joint.Dof.Revolute() {
			value = value * math.Pi / 180
		}
		if err := m.SetJointValue(id, value); err != nil {
			return err
		}
	}
	return nil
}

// clean folds negative zero and rounding noise into 0 for display.
func clean(v float64) float64 {
	if math.Abs(v) < 5e-13 {
		return 0
	}
	return v
}
