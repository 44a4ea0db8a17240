package observability_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m.MutationApplied(domain.ChangeNodeAdded)
	m.MutationApplied(domain.ChangeNodeAdded)
	m.MutationRejected(fmt.Errorf("add: %w", domain.ErrHasChildren))
	m.EventPublished()
	m.EventDropped()
	m.SetSubscribers(3)
	m.SetNodes(7)
	m.ObserveQuery(time.Microsecond)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["swerve_mutations_total"])
	assert.True(t, names["swerve_rejections_total"])
	assert.True(t, names["swerve_bus_subscribers"])
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.MutationApplied(domain.ChangeEdgeUpdated)
		m.MutationRejected(domain.ErrUnknownIdentity)
		m.EventPublished()
		m.EventDropped()
		m.SetSubscribers(1)
		m.SetNodes(1)
		m.ObserveQuery(time.Second)
	})
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrDuplicateIdentity, "duplicate_identity"},
		{fmt.Errorf("wrapped: %w", domain.ErrUnknownParent), "unknown_parent"},
		{&domain.DimensionError{Op: "x", Want: 3, Got: 2}, "dimension_mismatch"},
		{domain.ErrDisconnected, "disconnected"},
		{fmt.Errorf("boom"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, observability.Reason(tt.err))
		})
	}
}
