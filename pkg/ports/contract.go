package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	g := model.New()
	defer g.Close()

	offset, err := space.Translation(0.3, 0.2, 0)
	require.NoError(t, err)
	require.NoError(t, g.AddNode(model.NodeSpec{
		ID: "chassis", Space: space.Space{Name: "chassis", Dim: space.Spatial},
		Edge: model.Static(space.Identity(space.Spatial)),
		Body: domain.Body{Kind: domain.BodyChassis, MassKg: 25},
	}))
	require.NoError(t, g.AddNode(model.NodeSpec{
		ID: "module_0", Parent: "chassis", Space: space.Space{Name: "module_0", Dim: space.Spatial},
		Edge: model.Jointed(offset, domain.DofRevoluteZ, 0.5),
		Body: domain.Body{Kind: domain.BodySteering},
	}))

	snap, err := g.Snapshot()
	require.NoError(t, err)
	return snap
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-test-" + time.Now().Format("20060102150405")
	snap := contractSnapshot(t)

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Version, loaded.Version)
		assert.Equal(t, snap.Root, loaded.Root)
		require.Equal(t, snap.Len(), loaded.Len())

		module, ok := loaded.Node("module_0")
		require.True(t, ok, "Load should restore the node index")
		assert.Equal(t, model.EdgeJoint, module.Edge)
		require.NotNil(t, module.Joint)
		assert.InDelta(t, 0.5, module.Joint.Value, 1e-12)

		want, _ := snap.Node("module_0")
		assert.True(t, space.EqualApprox(want.Transform, module.Transform, 1e-12))
		assert.Equal(t, []string{"module_0"}, loaded.Children("chassis"))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		empty := &model.Snapshot{Version: 99}
		require.NoError(t, store.Save(ctx, name, empty))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, uint64(99), loaded.Version)
		assert.Equal(t, 0, loaded.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, snap))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, id1, snap)
		_ = store.Save(ctx, id2, snap)
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
