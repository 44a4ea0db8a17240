package mirror_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/swerve/pkg/adapters/memory"
	"github.com/aretw0/swerve/pkg/adapters/redis"
	"github.com/aretw0/swerve/pkg/mirror"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addFrame(t *testing.T, g *model.Graph, id, parent string) {
	t.Helper()
	offset, err := space.Translation(0.1, 0, 0)
	require.NoError(t, err)
	edge := model.Static(offset)
	if parent == "" {
		edge = model.Static(space.Identity(space.Spatial))
	}
	require.NoError(t, g.AddNode(model.NodeSpec{ID: id, Parent: parent, Space: space.Space{Name: id, Dim: space.Spatial}, Edge: edge}))
}

// start runs m in the background and waits for its initial sync.
func start(t *testing.T, m *mirror.Mirror) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = m.Run(ctx)
	}()
	require.Eventually(t, func() bool { return m.Syncs() > 0 }, 2*time.Second, 5*time.Millisecond)
	return func() error {
		cancel()
		wg.Wait()
		return runErr
	}
}

func TestMirror_FollowsGraph(t *testing.T) {
	g := model.New()
	defer g.Close()
	addFrame(t, g, "chassis", "")

	store := memory.NewStore()
	m := mirror.New(g, store, "robot")
	stop := start(t, m)

	addFrame(t, g, "module_0", "chassis")
	addFrame(t, g, "wheel_0", "module_0")

	require.Eventually(t, func() bool { return m.Saved() == g.Version() }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, stop())

	snap, err := store.Load(context.Background(), "robot")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"wheel_0"}, snap.Children("module_0"))
}

func TestMirror_ResyncsAfterOverflow(t *testing.T) {
	g := model.New()
	defer g.Close()
	addFrame(t, g, "chassis", "")

	store := memory.NewStore()
	m := mirror.New(g, store, "robot", mirror.WithQueueSize(1))
	stop := start(t, m)

	for i := range 200 {
		require.NoError(t, g.UpdateEdge("chassis", space.RotationZ(float64(i)/100)))
	}

	require.Eventually(t, func() bool { return m.Saved() == g.Version() }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
	assert.Less(t, m.Syncs(), uint64(202), "covered events are skipped")
}

func TestMirror_StopsWhenBusCloses(t *testing.T) {
	g := model.New()
	addFrame(t, g, "chassis", "")

	m := mirror.New(g, memory.NewStore(), "robot")
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()
	require.Eventually(t, func() bool { return m.Syncs() > 0 }, 2*time.Second, 5*time.Millisecond)

	g.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("mirror did not stop")
	}
}

type failingSource struct{ *model.Graph }

func (failingSource) Snapshot() (*model.Snapshot, error) { return nil, errors.New("boom") }

func TestMirror_InitialSyncError(t *testing.T) {
	g := model.New()
	defer g.Close()

	m := mirror.New(failingSource{g}, memory.NewStore(), "robot")
	err := m.Run(context.Background())
	assert.ErrorContains(t, err, "initial sync")
}

func TestMirror_WithRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	g := model.New()
	defer g.Close()
	addFrame(t, g, "chassis", "")

	store := redis.NewFromClient(client)
	m := mirror.New(g, store, "robot", mirror.WithLocker(redis.NewLocker(client, redis.DefaultPrefix), time.Second))
	stop := start(t, m)

	addFrame(t, g, "module_0", "chassis")
	require.Eventually(t, func() bool { return m.Saved() == g.Version() }, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, stop())

	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:robot"), "lock released after save")
	snap, err := store.Load(context.Background(), "robot")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
}
