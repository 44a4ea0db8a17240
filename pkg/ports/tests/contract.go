package tests

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/swerve/pkg/ports"
)

// DistributedLockerContractTest is a reusable test suite that verifies if an adapter complies with ports.DistributedLocker.
func DistributedLockerContractTest(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()
	key := "contract-" + time.Now().Format("150405.000000")

	// 1. Lock and Unlock
	t.Run("Lock_Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(context.Background(), key, time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking %s: %v", key, err)
		}
		if err := unlock(context.Background()); err != nil {
			t.Fatalf("unexpected error unlocking %s: %v", key, err)
		}
	})

	// 2. Held lock blocks until the context ends
	t.Run("Lock_Contended", func(t *testing.T) {
		unlock, err := locker.Lock(context.Background(), key, 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking %s: %v", key, err)
		}
		defer func() { _ = unlock(context.Background()) }()

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		if _, err := locker.Lock(ctx, key, time.Second); err == nil {
			t.Error("expected second Lock on a held key to fail, got nil")
		}
	})

	// 3. Lock serializes holders
	t.Run("Lock_Exclusive", func(t *testing.T) {
		var holders, maxHolders atomic.Int32
		done := make(chan struct{})
		for range 3 {
			go func() {
				defer func() { done <- struct{}{} }()
				unlock, err := locker.Lock(context.Background(), key+"-x", 5*time.Second)
				if err != nil {
					t.Errorf("unexpected error locking: %v", err)
					return
				}
				n := holders.Add(1)
				for {
					m := maxHolders.Load()
					if n <= m || maxHolders.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				holders.Add(-1)
				_ = unlock(context.Background())
			}()
		}
		for range 3 {
			<-done
		}
		if got := maxHolders.Load(); got != 1 {
			t.Errorf("expected at most one holder, saw %d", got)
		}
	})
}
