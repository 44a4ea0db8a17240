package bus_test

import (
	"sync"
	"testing"

	"github.com/aretw0/swerve/pkg/bus"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(seq uint64) bus.Event {
	return bus.Event{Seq: seq, Kind: domain.ChangeNodeAdded, ID: "n"}
}

func drain(sub *bus.Subscription) []uint64 {
	var seqs []uint64
	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return seqs
			}
			seqs = append(seqs, ev.Seq)
		default:
			return seqs
		}
	}
}

func TestBus_DeliversInOrderToAllSubscribers(t *testing.T) {
	b := bus.New()
	first := b.Subscribe()
	second := b.Subscribe()

	for i := uint64(1); i <= 10; i++ {
		b.Publish(event(i))
	}

	want := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, want, drain(first))
	assert.Equal(t, want, drain(second))
	assert.NoError(t, first.Err())
}

func TestBus_LateSubscriberMissesEarlierEvents(t *testing.T) {
	b := bus.New()
	b.Publish(event(1))

	sub := b.Subscribe()
	b.Publish(event(2))

	assert.Equal(t, []uint64{2}, drain(sub))
}

func TestBus_DropOldestOnOverflow(t *testing.T) {
	b := bus.New(bus.WithCapacity(8))
	sub := b.Subscribe(bus.WithQueueSize(2))

	for i := uint64(1); i <= 5; i++ {
		b.Publish(event(i))
	}

	select {
	case <-sub.Overflow():
	default:
		t.Fatal("expected overflow signal")
	}

	assert.Equal(t, uint64(3), sub.Dropped())
	err := sub.Err()
	assert.ErrorIs(t, err, domain.ErrOverflow)
	assert.NoError(t, sub.Err(), "overflow is reported once per episode")

	assert.Equal(t, []uint64{4, 5}, drain(sub))
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	b := bus.New(bus.WithCapacity(1))
	sub := b.Subscribe()

	for i := uint64(1); i <= 1000; i++ {
		b.Publish(event(i))
	}

	assert.Equal(t, []uint64{1000}, drain(sub))
	assert.Equal(t, uint64(999), sub.Dropped())
}

func TestBus_Unsubscribe(t *testing.T) {
	b := bus.New()
	sub := b.Subscribe()
	require.Equal(t, 1, b.Len())

	assert.True(t, b.Unsubscribe(sub))
	assert.False(t, b.Unsubscribe(sub))
	assert.Equal(t, 0, b.Len())

	_, ok := <-sub.C()
	assert.False(t, ok, "channel must be closed")
	_, ok = <-sub.Overflow()
	assert.False(t, ok)

	assert.NotPanics(t, func() { b.Publish(event(1)) })
}

func TestBus_Close(t *testing.T) {
	b := bus.New()
	sub := b.Subscribe()
	b.Close()
	b.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)

	late := b.Subscribe()
	_, ok = <-late.C()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
	assert.NotPanics(t, late.Close)
}

func TestBus_ConcurrentUnsubscribeDuringPublish(t *testing.T) {
	b := bus.New(bus.WithCapacity(4))
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(1); i <= 2000; i++ {
			b.Publish(event(i))
		}
	}()

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				sub := b.Subscribe()
				drain(sub)
				sub.Close()
			}
		}()
	}

	assert.NotPanics(t, wg.Wait)
	assert.Equal(t, 0, b.Len())
}

func TestBus_SubscriberSeesIncreasingSequence(t *testing.T) {
	b := bus.New(bus.WithCapacity(16))
	sub := b.Subscribe()

	done := make(chan []uint64)
	go func() {
		var seen []uint64
		for ev := range sub.C() {
			seen = append(seen, ev.Seq)
		}
		done <- seen
	}()

	for i := uint64(1); i <= 500; i++ {
		b.Publish(event(i))
	}
	sub.Close()

	seen := <-done
	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1], seen[i])
	}
	assert.Equal(t, uint64(500), seen[len(seen)-1])
}
