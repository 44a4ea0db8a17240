package ports

import (
	"context"

	"github.com/aretw0/swerve/pkg/model"
)

// SnapshotStore defines the interface for persisting model snapshots.
// It lets diagnostics tooling and late subscribers recover the topology
// without access to the live graph.
type SnapshotStore interface {
	// Save persists the snapshot under name, replacing any previous one.
	Save(ctx context.Context, name string, snap *model.Snapshot) error

	// Load retrieves the snapshot stored under name.
	// Returns domain.ErrSnapshotNotFound if there is none.
	Load(ctx context.Context, name string) (*model.Snapshot, error)

	// Delete removes the snapshot stored under name.
	Delete(ctx context.Context, name string) error

	// List returns the names of stored snapshots.
	List(ctx context.Context) ([]string, error)
}
