package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/swerve"
	"github.com/aretw0/swerve/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swerve",
	Short: "Swerve keeps the frame tree of a swerve-drive robot",
	Long: `Swerve loads a robot description (YAML or JSON), checks that its frames form a
single tree, and answers coordinate transform queries between any two frames.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "robot.yaml", "Robot description file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// openModel loads the description named by --file.
func openModel(cmd *cobra.Command, opts ...swerve.Option) (*swerve.Model, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("file")
	return swerve.Open(path, append([]swerve.Option{swerve.WithLogger(logger)}, opts...)...)
}
