package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/swerve/internal/logging"
	"github.com/aretw0/swerve/pkg/bus"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/ports"
)

// Source is what a Mirror follows. *model.Graph satisfies it.
type Source interface {
	Subscribe(opts ...bus.SubscribeOption) *bus.Subscription
	Unsubscribe(s *bus.Subscription) bool
	Snapshot() (*model.Snapshot, error)
}

// Mirror keeps a store up to date with a live graph. Every change event
// triggers a snapshot save; events already covered by a saved snapshot are
// skipped, and a bus overflow forces a full resync.
type Mirror struct {
	source Source
	store  ports.SnapshotStore
	name   string

	locker    ports.DistributedLocker
	lockTTL   time.Duration
	queueSize int
	logger    *slog.Logger

	saved atomic.Uint64
	syncs atomic.Uint64
}

// Option configures the Mirror.
type Option func(*Mirror)

// WithLocker serializes saves with other mirrors writing the same name.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(m *Mirror) {
		m.locker = locker
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Mirror.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// WithQueueSize sets the mirror's subscription queue size.
func WithQueueSize(n int) Option {
	return func(m *Mirror) {
		m.queueSize = n
	}
}

// New creates a Mirror that saves snapshots of source under name.
func New(source Source, store ports.SnapshotStore, name string, opts ...Option) *Mirror {
	m := &Mirror{
		source:  source,
		store:   store,
		name:    name,
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Saved returns the graph version of the last stored snapshot.
func (m *Mirror) Saved() uint64 { return m.saved.Load() }

// Syncs returns how many snapshots were stored.
func (m *Mirror) Syncs() uint64 { return m.syncs.Load() }

// Run follows the source until ctx is canceled or the bus closes.
// It stores an initial snapshot before waiting for events.
func (m *Mirror) Run(ctx context.Context) error {
	var subOpts []bus.SubscribeOption
	if m.queueSize > 0 {
		subOpts = append(subOpts, bus.WithQueueSize(m.queueSize))
	}
	sub := m.source.Subscribe(subOpts...)
	defer m.source.Unsubscribe(sub)

	if err := m.Sync(ctx); err != nil {
		return fmt.Errorf("initial sync: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sub.Overflow():
			if !ok {
				return nil
			}
			m.logger.Warn("mirror fell behind, resyncing", "name", m.name, "dropped", sub.Dropped(), "err", sub.Err())
			m.trySync(ctx)
		case ev, ok := <-sub.C():
			if !ok {
				m.logger.Debug("bus closed, mirror stopping", "name", m.name)
				return nil
			}
			if ev.Seq <= m.saved.Load() {
				continue
			}
			m.trySync(ctx)
		}
	}
}

func (m *Mirror) trySync(ctx context.Context) {
	if err := m.Sync(ctx); err != nil && ctx.Err() == nil {
		m.logger.Error("mirror sync failed", "name", m.name, "err", err)
	}
}

// Sync stores a fresh snapshot now.
func (m *Mirror) Sync(ctx context.Context) error {
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, m.name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"name", m.name,
					"err", err,
				)
			}
		}()
	}

	snap, err := m.source.Snapshot()
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, m.name, snap); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", m.name, err)
	}
	m.saved.Store(snap.Version)
	m.syncs.Add(1)
	m.logger.Debug("snapshot stored", "name", m.name, "version", snap.Version)
	return nil
}
