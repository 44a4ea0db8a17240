package bus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/swerve/internal/logging"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/observability"
	"github.com/aretw0/swerve/pkg/space"
	"github.com/google/uuid"
)

// DefaultCapacity is the per-subscriber queue size when none is configured.
const DefaultCapacity = 64

// Event is an immutable record of one accepted mutation.
// Transform is nil for removals.
type Event struct {
	Seq       uint64            `json:"seq"`
	Kind      domain.ChangeKind `json:"kind"`
	ID        string            `json:"id"`
	Parent    string            `json:"parent,omitempty"`
	Transform *space.Transform  `json:"transform,omitempty"`
	Time      time.Time         `json:"time"`
}

// Bus fans change events out to subscribers.
//
// Every subscriber owns a bounded queue. When a queue is full the oldest
// event in it is dropped and the subscriber is told through its Overflow
// channel, so Publish never waits on a slow reader.
//
// Safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	subs     map[string]*Subscription
	closed   bool
	capacity int

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Bus.
type Option func(*Bus)

// WithCapacity sets the default queue size for new subscriptions.
func WithCapacity(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithLogger configures a logger for overflow and lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithMetrics records publish and drop counts.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bus) {
		b.metrics = m
	}
}

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subs:     make(map[string]*Subscription),
		capacity: DefaultCapacity,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*Subscription)

// WithQueueSize overrides the bus default queue size for one subscriber.
func WithQueueSize(n int) SubscribeOption {
	return func(s *Subscription) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// Subscribe registers a new subscriber. It receives every event published
// after this call returns. Subscribing to a closed bus yields a subscription
// whose channel is already closed.
func (b *Bus) Subscribe(opts ...SubscribeOption) *Subscription {
	s := &Subscription{
		id:       uuid.NewString(),
		bus:      b,
		capacity: b.capacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ch = make(chan Event, s.capacity)
	s.overflow = make(chan struct{}, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		s.shut()
		return s
	}
	b.subs[s.id] = s
	b.metrics.SetSubscribers(len(b.subs))
	b.logger.Debug("subscriber registered", "subscription", s.id, "capacity", s.capacity)
	return s
}

// Unsubscribe removes the subscription and closes its channels.
// It reports whether the subscription was still registered.
func (b *Bus) Unsubscribe(s *Subscription) bool {
	if s == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[s.id]; !ok {
		return false
	}
	delete(b.subs, s.id)
	s.shut()
	b.metrics.SetSubscribers(len(b.subs))
	b.logger.Debug("subscriber removed", "subscription", s.id)
	return true
}

// Publish hands ev to every registered subscriber without blocking.
// Callers that need a global order must serialize their Publish calls.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		b.metrics.EventPublished()
		if n := s.deliver(ev); n > 0 {
			for i := 0; i < n; i++ {
				b.metrics.EventDropped()
			}
			b.logger.Warn("subscriber overflow, oldest event dropped",
				"subscription", s.id,
				"seq", ev.Seq,
				"dropped_total", s.Dropped(),
			)
		}
	}
}

// Len returns the number of registered subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes everyone. Later subscriptions are closed immediately
// and later publishes reach nobody.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		s.shut()
		delete(b.subs, id)
	}
	b.metrics.SetSubscribers(0)
}
