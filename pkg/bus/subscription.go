package bus

import (
	"fmt"
	"sync/atomic"

	"github.com/aretw0/swerve/pkg/domain"
)

// Subscription is one subscriber's view of the bus.
type Subscription struct {
	id       string
	bus      *Bus
	capacity int

	ch       chan Event
	overflow chan struct{}

	// closed is guarded by bus.mu.
	closed bool

	dropped atomic.Uint64
	pending atomic.Bool
}

// ID returns the subscription identifier.
func (s *Subscription) ID() string { return s.id }

// C returns the event channel. It is closed on unsubscribe.
func (s *Subscription) C() <-chan Event { return s.ch }

// Overflow receives a signal whenever events were dropped since the last
// signal was consumed. It is closed on unsubscribe.
func (s *Subscription) Overflow() <-chan struct{} { return s.overflow }

// Dropped returns how many events this subscriber lost in total.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Err returns an error wrapping domain.ErrOverflow if events were dropped
// since the previous call, and nil otherwise.
func (s *Subscription) Err() error {
	if s.pending.Swap(false) {
		return fmt.Errorf("%w: subscription %s dropped %d events", domain.ErrOverflow, s.id, s.Dropped())
	}
	return nil
}

// Close unsubscribes from the bus.
func (s *Subscription) Close() {
	s.bus.Unsubscribe(s)
}

// deliver enqueues ev, evicting the oldest queued events until it fits.
// It returns the number of evicted events. Must hold bus.mu.
func (s *Subscription) deliver(ev Event) int {
	if s.closed {
		return 0
	}
	evicted := 0
	for {
		select {
		case s.ch <- ev:
			if evicted > 0 {
				s.dropped.Add(uint64(evicted))
				s.pending.Store(true)
				select {
				case s.overflow <- struct{}{}:
				default:
				}
			}
			return evicted
		default:
		}

		select {
		case <-s.ch:
			evicted++
		default:
		}
	}
}

// shut closes the channels once. Must hold bus.mu.
func (s *Subscription) shut() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	close(s.overflow)
}
