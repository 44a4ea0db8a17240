package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/swerve"
	httpAdapter "github.com/aretw0/swerve/internal/adapters/http"
	"github.com/aretw0/swerve/internal/presentation/tui"
	"github.com/aretw0/swerve/pkg/mirror"
	"github.com/aretw0/swerve/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagnostics HTTP server",
	Long: `Loads the model and serves snapshots, transform queries, a Mermaid graph,
a live event stream and Prometheus metrics over HTTP.

With --redis or --snapshot-dir the model is mirrored into a snapshot store
on every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		m, err := openModel(cmd, swerve.WithMetrics(metrics))
		if err != nil {
			return err
		}
		defer m.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		target, err := openStore(cmd, logger)
		if err != nil {
			return err
		}
		defer target.close()

		mirrorErrors := make(chan error, 1)
		if target.store != nil {
			opts := []mirror.Option{mirror.WithLogger(logger)}
			if target.locker != nil {
				opts = append(opts, mirror.WithLocker(target.locker, 5*time.Second))
			}
			mr := mirror.New(m, target.store, m.Name, opts...)
			go func() {
				if err := mr.Run(ctx); err != nil {
					mirrorErrors <- err
				}
			}()
		}

		srv := &http.Server{
			Addr: addr,
			Handler: httpAdapter.NewHandler(m,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithVersion(swerve.Version),
			),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			serverErrors <- srv.ListenAndServe()
		}()

		out := cmd.OutOrStdout()
		if out == os.Stdout {
			tui.PrintBanner(out, tui.ProfileFor(os.Stdout))
		}
		fmt.Fprintf(out, "Serving model %q (%d frames) on %s\n", m.Name, m.Len(), addr)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case err := <-mirrorErrors:
			shutdown(cmd, srv)
			return fmt.Errorf("mirror stopped: %w", err)
		case <-ctx.Done():
			fmt.Fprintln(out, "\nStart shutdown...")
			shutdown(cmd, srv)
			fmt.Fprintln(out, "Swerve server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	addStoreFlags(serveCmd)
}

func shutdown(cmd *cobra.Command, srv *http.Server) {
	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Graceful shutdown did not complete: %v\n", err)
		_ = srv.Close()
	}
}
