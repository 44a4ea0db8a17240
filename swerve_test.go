package swerve_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/swerve"
	"github.com/aretw0/swerve/pkg/adapters/file"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/observability"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swervePlanar(id, parent string, t space.Transform) model.NodeSpec {
	return model.NodeSpec{
		ID:     id,
		Parent: parent,
		Space:  space.Space{Name: id, Dim: space.Planar},
		Edge:   model.Static(t),
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rover.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
frames:
  - id: chassis
  - id: imu
    parent: chassis
    kind: sensor
    translation: [0, 0, 0.1]
`), 0644))

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m, err := swerve.Open(path, swerve.WithMetrics(metrics), swerve.WithGraphOptions(model.WithEpsilon(1e-6)))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "rover", m.Name)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1e-6, m.Epsilon())
	assert.NoError(t, m.CheckInvariants())

	n, err := testutil.GatherAndCount(reg, "swerve_mutations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_Errors(t *testing.T) {
	_, err := swerve.Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = swerve.Parse("broken", []byte(`
frames:
  - id: a
  - id: b
`), file.FormatYAML)
	assert.ErrorIs(t, err, domain.ErrUnknownParent)
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "rover", swerve.NameOf("/tmp/models/rover.yaml"))
	assert.Equal(t, "bench", swerve.NameOf("bench.json"))
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, swerve.Version)
	assert.NotContains(t, swerve.Version, "\n")
}
