package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/swerve/pkg/adapters/file"
	"github.com/aretw0/swerve/pkg/adapters/redis"
	"github.com/aretw0/swerve/pkg/ports"
	"github.com/spf13/cobra"
)

type storeTarget struct {
	store  ports.SnapshotStore
	locker ports.DistributedLocker
	close  func()
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address for the snapshot store, e.g. localhost:6379")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database")
	cmd.Flags().String("snapshot-dir", "", "Directory for the file snapshot store")
}

// openStore picks the snapshot store from the flags: Redis wins over a
// directory. With neither set the target has no store.
func openStore(cmd *cobra.Command, logger *slog.Logger) (*storeTarget, error) {
	addr, _ := cmd.Flags().GetString("redis")
	dir, _ := cmd.Flags().GetString("snapshot-dir")

	switch {
	case addr != "":
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		store := redis.New(addr, password, db)

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		defer cancel()
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
		}
		logger.Info("snapshot store", "backend", "redis", "addr", addr)
		return &storeTarget{
			store:  store,
			locker: redis.NewLocker(store.Client(), "swerve:"),
			close:  func() { _ = store.Close() },
		}, nil
	case dir != "":
		logger.Info("snapshot store", "backend", "file", "dir", dir)
		return &storeTarget{store: file.NewStore(dir), close: func() {}}, nil
	}
	return &storeTarget{close: func() {}}, nil
}
