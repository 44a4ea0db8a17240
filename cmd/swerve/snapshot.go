package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/swerve/internal/presentation/tui"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and inspect model snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Store a snapshot of the model",
	Long:  `Stores the current model under [name], which defaults to the model name.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer target.close()

		m, err := openModel(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		snap, err := m.Snapshot()
		if err != nil {
			return err
		}
		name := m.Name
		if len(args) > 0 {
			name = args[0]
		}
		if err := target.store.Save(cmd.Context(), name, snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %q (version %d, %d frames)\n", name, snap.Version, snap.Len())
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer target.close()

		names, err := target.store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored snapshot as a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer target.close()

		snap, err := target.store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		profile := termenv.Ascii
		if cmd.OutOrStdout() == os.Stdout {
			profile = tui.ProfileFor(os.Stdout)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (version %d)\n", args[0], snap.Version)
		return tui.RenderTree(cmd.OutOrStdout(), snap, profile)
	},
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <name>",
	Short: "Compare a stored snapshot with the description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer target.close()

		old, err := target.store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		m, err := openModel(cmd)
		if err != nil {
			return err
		}
		defer m.Close()
		cur, err := m.Snapshot()
		if err != nil {
			return err
		}

		d := model.Diff(old, cur, m.Epsilon())
		out := cmd.OutOrStdout()
		if d == nil {
			fmt.Fprintln(out, "No changes")
			return nil
		}
		for _, group := range []struct {
			mark string
			ids  []string
		}{
			{"+", d.Added},
			{"-", d.Removed},
			{">", d.Reparented},
			{"~", d.Changed},
		} {
			for _, id := range group.ids {
				fmt.Fprintf(out, "%s %s\n", group.mark, id)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotShowCmd, snapshotDiffCmd)
	for _, c := range []*cobra.Command{snapshotSaveCmd, snapshotListCmd, snapshotShowCmd, snapshotDiffCmd} {
		addStoreFlags(c)
	}
}

func requireStore(cmd *cobra.Command) (*storeTarget, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	target, err := openStore(cmd, logger)
	if err != nil {
		return nil, err
	}
	if target.store == nil {
		return nil, errors.New("no snapshot store: set --snapshot-dir or --redis")
	}
	return target, nil
}
