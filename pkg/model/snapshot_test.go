package model_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_IsolatedFromLaterMutations(t *testing.T) {
	g := rig(t)
	snap, err := g.Snapshot()
	require.NoError(t, err)

	require.NoError(t, g.UpdateEdge("module_0", translation(t, 1, 1, 1)))
	require.NoError(t, g.RemoveNode("wheel_0"))

	assert.Equal(t, uint64(3), snap.Version)
	assert.Equal(t, 3, snap.Len())
	module, ok := snap.Node("module_0")
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.3, 0.2, 0}, module.Transform.TranslationVector(), eps)
	assert.Equal(t, []string{"wheel_0"}, snap.Children("module_0"))
}

func TestSnapshot_PreOrder(t *testing.T) {
	g := swerve(t)
	snap, err := g.Snapshot()
	require.NoError(t, err)

	var ids []string
	for _, n := range snap.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{
		"chassis",
		"module_0", "wheel_0",
		"module_1", "wheel_1",
		"module_2", "wheel_2",
		"module_3", "wheel_3",
	}, ids)
	assert.Equal(t, "chassis", snap.Root)
	assert.Equal(t, []string{"wheel_0", "wheel_1", "wheel_2", "wheel_3"}, snap.Wheels())

	_, ok := snap.Node("ghost")
	assert.False(t, ok)
	assert.Nil(t, snap.Children("ghost"))
}

func TestSnapshot_Empty(t *testing.T) {
	g := model.New()
	defer g.Close()

	snap, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.Empty(t, snap.Root)
	assert.NoError(t, g.CheckInvariants())
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	g := swerve(t)
	snap, err := g.Snapshot()
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded model.Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap.Version, decoded.Version)

	for _, want := range snap.Nodes {
		got, ok := decoded.Node(want.ID)
		require.True(t, ok, want.ID)
		assert.Equal(t, want.Parent, got.Parent)
		assert.Equal(t, want.Edge, got.Edge)
		assert.Equal(t, want.Joint, got.Joint)
		assert.True(t, space.EqualApprox(want.Transform, got.Transform, 1e-12), want.ID)
	}
}

func TestSnapshot_Clone(t *testing.T) {
	g := swerve(t)
	snap, err := g.Snapshot()
	require.NoError(t, err)

	c := snap.Clone()
	c.Nodes[0].Children[0] = "tampered"
	c.Nodes[1].Joint.Value = 42

	assert.Equal(t, "module_0", snap.Nodes[0].Children[0])
	assert.NotEqual(t, 42.0, snap.Nodes[1].Joint.Value)
	_, ok := c.Node("wheel_3")
	assert.True(t, ok)
}

func TestSnapshot_Path(t *testing.T) {
	g := swerve(t)
	snap, err := g.Snapshot()
	require.NoError(t, err)

	tests := []struct {
		from, to string
		want     []string
	}{
		{"wheel_0", "chassis", []string{"wheel_0", "module_0", "chassis"}},
		{"chassis", "wheel_0", []string{"chassis", "module_0", "wheel_0"}},
		{"wheel_0", "wheel_2", []string{"wheel_0", "module_0", "chassis", "module_2", "wheel_2"}},
		{"module_1", "module_1", []string{"module_1"}},
	}
	for _, tt := range tests {
		got, err := snap.Path(tt.from, tt.to)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}

	_, err = snap.Path("wheel_0", "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownIdentity)
}
