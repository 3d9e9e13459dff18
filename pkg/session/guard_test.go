package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/rdrscript/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_LockLifecycle(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()
	count := 10000

	// 1. Run under many keys
	for i := 0; i < count; i++ {
		key := RunKey("app", fmt.Sprintf("runner-%d", i))
		_ = g.WithLock(ctx, key, func(context.Context) error { return nil })
	}

	// 2. Assert no lock entry leaked
	if lockCount := len(g.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory", lockCount)
	}
}

func TestGuard_SerializesSameKey(t *testing.T) {
	g := NewGuard()
	ctx := context.Background()
	key := RunKey("cn.fmsoft.hvml.purcmc", "sample")

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.WithLock(ctx, key, func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestGuard_Held(t *testing.T) {
	g := NewGuard()
	err := g.WithLock(context.Background(), "a/b", func(context.Context) error {
		assert.Equal(t, []string{"a/b"}, g.Held())
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, g.Held())
}

type stubLocker struct {
	lockErr  error
	ttl      time.Duration
	unlocked bool
}

func (l *stubLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.ttl = ttl
	return func(context.Context) error {
		l.unlocked = true
		return nil
	}, nil
}

func TestGuard_DistributedLocker(t *testing.T) {
	locker := &stubLocker{}
	g := NewGuard(WithLocker(locker), WithTTL(time.Minute))

	ran := false
	err := g.WithLock(context.Background(), "a/b", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, locker.unlocked)
	assert.Equal(t, time.Minute, locker.ttl)

	boom := errors.New("redis down")
	g = NewGuard(WithLocker(&stubLocker{lockErr: boom}))
	err = g.WithLock(context.Background(), "a/b", func(context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, g.locks)
}
