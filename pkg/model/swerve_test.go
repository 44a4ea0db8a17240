package model_test

import (
	"testing"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(id, parent string, edge model.Edge, kind domain.BodyKind) model.NodeSpec {
	return model.NodeSpec{ID: id, Parent: parent, Space: spatial(id), Edge: edge, Body: domain.Body{Kind: kind}}
}

func steer(t *testing.T, id, parent string) model.NodeSpec {
	return frame(id, parent, model.Jointed(translation(t, 0.3, 0, 0), domain.DofRevoluteZ, 0), domain.BodySteering)
}

func spin(t *testing.T, id, parent string) model.NodeSpec {
	return frame(id, parent, model.Jointed(translation(t, 0, 0, -0.05), domain.DofRevoluteY, 0), domain.BodyWheel)
}

func snapshotOf(t *testing.T, specs ...model.NodeSpec) *model.Snapshot {
	t.Helper()
	g, err := model.Build(specs)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	snap, err := g.Snapshot()
	require.NoError(t, err)
	return snap
}

func TestCheckSwerve(t *testing.T) {
	chassis := frame("chassis", "", model.Static(space.Identity(space.Spatial)), domain.BodyChassis)

	tests := []struct {
		name  string
		specs []model.NodeSpec
		want  []string
	}{
		{
			name:  "two modules",
			specs: []model.NodeSpec{chassis, steer(t, "module_0", "chassis"), spin(t, "wheel_0", "module_0"), steer(t, "module_1", "chassis"), spin(t, "wheel_1", "module_1")},
		},
		{
			name:  "one wheel",
			specs: []model.NodeSpec{chassis, steer(t, "module_0", "chassis"), spin(t, "wheel_0", "module_0")},
			want:  []string{"needs at least 2 wheels, found 1"},
		},
		{
			name: "wheel without joint",
			specs: []model.NodeSpec{
				chassis,
				steer(t, "module_0", "chassis"), spin(t, "wheel_0", "module_0"),
				steer(t, "module_1", "chassis"), frame("wheel_1", "module_1", model.Static(translation(t, 0, 0, -0.05)), domain.BodyWheel),
			},
			want: []string{"wheel 'wheel_1' has no joint, want revolute_y"},
		},
		{
			name: "wheel without steering",
			specs: []model.NodeSpec{
				chassis,
				steer(t, "module_0", "chassis"), spin(t, "wheel_0", "module_0"),
				spin(t, "wheel_1", "chassis"),
			},
			want: []string{"wheel 'wheel_1' has no steering frame"},
		},
		{
			name: "stacked steering",
			specs: []model.NodeSpec{
				chassis,
				steer(t, "turret", "chassis"),
				steer(t, "module_0", "turret"), spin(t, "wheel_0", "module_0"),
				steer(t, "module_1", "chassis"), spin(t, "wheel_1", "module_1"),
			},
			want: []string{"wheel 'wheel_0' has 2 steering frames: module_0, turret"},
		},
		{
			name: "idle steering frame",
			specs: []model.NodeSpec{
				chassis,
				steer(t, "module_0", "chassis"), spin(t, "wheel_0", "module_0"),
				steer(t, "module_1", "chassis"), spin(t, "wheel_1", "module_1"),
				steer(t, "module_2", "chassis"),
			},
			want: []string{"steering frame 'module_2' is not connected to a wheel"},
		},
		{
			name: "steering frame without joint",
			specs: []model.NodeSpec{
				chassis,
				steer(t, "module_0", "chassis"), spin(t, "wheel_0", "module_0"),
				frame("module_1", "chassis", model.Static(translation(t, -0.3, 0, 0)), domain.BodySteering), spin(t, "wheel_1", "module_1"),
			},
			want: []string{"steering frame 'module_1' has no joint, want revolute_z"},
		},
		{
			name:  "bare chassis",
			specs: []model.NodeSpec{chassis},
			want:  []string{"found 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := snapshotOf(t, tt.specs...).CheckSwerve()
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrNotSwerve)
			for _, msg := range tt.want {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestCheckSwerve_FourModules(t *testing.T) {
	snap, err := swerve(t).Snapshot()
	require.NoError(t, err)
	assert.NoError(t, snap.CheckSwerve())
	assert.Equal(t, []string{"module_0", "module_1", "module_2", "module_3"}, snap.SteeringFrames())
}

func TestSteeringFrame(t *testing.T) {
	snap := snapshotOf(t,
		frame("chassis", "", model.Static(space.Identity(space.Spatial)), domain.BodyChassis),
		steer(t, "module_0", "chassis"),
		frame("fork_0", "module_0", model.Static(translation(t, 0, 0, -0.02)), domain.BodyGeneric),
		spin(t, "wheel_0", "fork_0"),
		spin(t, "caster", "chassis"),
	)

	got, err := snap.SteeringFrame("wheel_0")
	require.NoError(t, err)
	assert.Equal(t, "module_0", got)

	_, err = snap.SteeringFrame("caster")
	assert.ErrorIs(t, err, domain.ErrNoSteeringFrame)
	_, err = snap.SteeringFrame("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownIdentity)
}

func TestIsAncestorAndDof(t *testing.T) {
	snap, err := rig(t).Snapshot()
	require.NoError(t, err)

	assert.True(t, snap.IsAncestor("wheel_0", "chassis"))
	assert.True(t, snap.IsAncestor("wheel_0", "module_0"))
	assert.True(t, snap.IsAncestor("module_0", "module_0"))
	assert.False(t, snap.IsAncestor("chassis", "wheel_0"))
	assert.False(t, snap.IsAncestor("ghost", "chassis"))
	assert.False(t, snap.IsAncestor("wheel_0", "ghost"))

	dof, err := snap.Dof("wheel_0")
	require.NoError(t, err)
	assert.Empty(t, dof)

	snap, err = swerve(t).Snapshot()
	require.NoError(t, err)
	dof, err = snap.Dof("module_2")
	require.NoError(t, err)
	assert.Equal(t, domain.DofRevoluteZ, dof)
	_, err = snap.Dof("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownIdentity)
}
