package file_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/swerve/pkg/adapters/file"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swerveYAML = `
name: demo
epsilon: 1e-8
frames:
  - id: wheel_0
    parent: module_0
    rotation: {axis: z, degrees: 90}
    kind: wheel
  - id: chassis
    dim: 3
    kind: chassis
    mass: 20
  - id: module_0
    parent: chassis
    translation: [0.3, 0.2, 0]
    joint: {dof: revolute_z}
    kind: steering
`

func TestParse_YAML(t *testing.T) {
	desc, err := file.Parse([]byte(swerveYAML), file.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "demo", desc.Name)
	assert.Equal(t, 1e-8, desc.Epsilon)
	require.Len(t, desc.Specs, 3)
	assert.Equal(t, "chassis", desc.Specs[0].ID, "parents come first")

	g, err := desc.Build()
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, 1e-8, g.Epsilon())

	got, err := g.TransformBetween("wheel_0", "chassis")
	require.NoError(t, err)
	want, err := space.FromRotationTranslation([][]float64{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}, []float64{0.3, 0.2, 0})
	require.NoError(t, err)
	assert.True(t, space.EqualApprox(want, got, 1e-9), "got %v", got)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	chassis, _ := snap.Node("chassis")
	assert.Equal(t, domain.Body{Kind: domain.BodyChassis, MassKg: 20}, chassis.Body)
	module, _ := snap.Node("module_0")
	assert.Equal(t, model.EdgeJoint, module.Edge)
	assert.Equal(t, []string{"wheel_0"}, snap.Wheels())
}

func TestParse_JSON(t *testing.T) {
	doc := `{
		"name": "planar",
		"allow_identity_reuse": true,
		"frames": [
			{"id": "floor", "dim": 2},
			{"id": "turret", "parent": "floor", "translation": [1, 0], "joint": {"dof": "revolute_z", "value": 90}}
		]
	}`
	desc, err := file.Parse([]byte(doc), file.FormatJSON)
	require.NoError(t, err)
	assert.True(t, desc.AllowReuse)

	g, err := desc.Build()
	require.NoError(t, err)
	defer g.Close()

	got, err := g.TransformBetween("turret", "floor")
	require.NoError(t, err)
	p, err := space.Apply(got, []float64{1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, p, 1e-9)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	turret, _ := snap.Node("turret")
	assert.Equal(t, space.Planar, turret.Space.Dim, "children inherit the parent dimension")

	require.NoError(t, g.RemoveNode("turret"))
	require.NoError(t, g.AddNode(desc.Specs[1]), "identity reuse is enabled by the document")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
		key  string
	}{
		{name: "unknown key", doc: "frames:\n  - id: a\n    colour: red\n"},
		{name: "missing id", doc: "frames:\n  - parent: a\n", key: "id"},
		{name: "duplicate id", doc: "frames:\n  - id: a\n  - id: a\n", want: domain.ErrDuplicateIdentity},
		{name: "bad dim", doc: "frames:\n  - id: a\n    dim: 4\n", key: "dim"},
		{name: "bad kind", doc: "frames:\n  - id: a\n    kind: tank\n", key: "kind"},
		{name: "bad dof", doc: "frames:\n  - id: a\n    joint: {dof: twist}\n", key: "joint.dof"},
		{name: "bad axis", doc: "frames:\n  - id: a\n    rotation: {axis: w, degrees: 1}\n", key: "rotation.axis"},
		{name: "two rotations", doc: "frames:\n  - id: a\n    yaw: 10\n    rotation: {axis: z, degrees: 1}\n", key: "rotation"},
		{name: "negative mass", doc: "frames:\n  - id: a\n    mass: -1\n", key: "mass"},
		{name: "short translation", doc: "frames:\n  - id: a\n    translation: [1, 2]\n", want: domain.ErrDimensionMismatch},
		{name: "non-finite translation", doc: "frames:\n  - id: a\n    translation: [.nan, 0, 0]\n", want: domain.ErrInvalidTransform},
		{name: "non-finite yaw", doc: "frames:\n  - id: a\n    yaw: .inf\n", want: domain.ErrInvalidTransform},
		{name: "not yaml", doc: "frames: [", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.Parse([]byte(tt.doc), file.FormatYAML)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.key != "" {
				var fe *file.FieldError
				require.True(t, errors.As(err, &fe), "%v", err)
				assert.Equal(t, tt.key, fe.Key)
				assert.NotEmpty(t, file.FieldErrors(err))
			}
		})
	}
}

func TestParse_BuildFailsLikeMutation(t *testing.T) {
	desc, err := file.Parse([]byte("frames:\n  - id: a\n  - id: b\n    parent: ghost\n"), file.FormatYAML)
	require.NoError(t, err)

	_, err = desc.Build()
	assert.ErrorIs(t, err, domain.ErrUnknownParent)

	desc, err = file.Parse([]byte("frames:\n  - id: a\n  - id: b\n    parent: a\n    joint: {dof: revolute_z, value: -.inf}\n"), file.FormatYAML)
	require.NoError(t, err)

	_, err = desc.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidTransform)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frames:\n  - id: chassis\n  - id: imu\n    parent: chassis\n    roll: 180\n"), 0644))

	desc, err := file.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "robot", desc.Name)

	g, err := desc.Build()
	require.NoError(t, err)
	defer g.Close()
	got, err := g.TransformBetween("imu", "chassis")
	require.NoError(t, err)
	assert.InDelta(t, -1, got.At(1, 1), 1e-9)
	assert.InDelta(t, math.Abs(got.At(0, 0)), 1, 1e-9)

	_, err = file.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, file.FormatJSON, file.FormatOf("robot.JSON"))
}

func TestLoad_ExampleDescriptions(t *testing.T) {
	for name, isSwerve := range map[string]bool{"swerve4.yaml": true, "planar.json": false} {
		t.Run(name, func(t *testing.T) {
			desc, err := file.Load(filepath.Join("..", "..", "..", "examples", "descriptions", name))
			require.NoError(t, err)
			g, err := desc.Build()
			require.NoError(t, err)
			defer g.Close()
			assert.NoError(t, g.CheckInvariants())

			snap, err := g.Snapshot()
			require.NoError(t, err)
			if isSwerve {
				assert.NoError(t, snap.CheckSwerve())
			} else {
				assert.ErrorIs(t, snap.CheckSwerve(), domain.ErrNotSwerve)
			}
		})
	}
}
