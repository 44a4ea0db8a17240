/*
Package bus is the change bus: an in-memory publish/subscribe layer that
announces model graph mutations.

Delivery is message passing over one bounded queue per subscriber. The
policy on a full queue is drop-oldest: the publisher evicts the oldest queued
event, counts it, and signals the subscriber on Overflow. A subscriber that
sees an overflow should resynchronize from a fresh snapshot.

	sub := g.Subscribe()
	defer sub.Close()

	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			handle(ev)
		case <-sub.Overflow():
			resync(g.Snapshot())
		}
	}

Unsubscribing closes both channels. Publish and Unsubscribe serialize on the
bus lock, so a publisher never sends on a closed channel.
*/
package bus
