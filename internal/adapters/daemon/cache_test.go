package daemon_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/daemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCache_FetchesOnce(t *testing.T) {
	cache := daemon.NewFetchCache()
	var calls atomic.Int32
	fetch := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	require.NoError(t, cache.Fetch(context.Background(), "/ws/1/reactor", fetch))
	require.NoError(t, cache.Fetch(context.Background(), "/ws/1/reactor/", fetch))

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestFetchCache_ConcurrentCallersShareFetch(t *testing.T) {
	cache := daemon.NewFetchCache()
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) error {
		calls.Add(1)
		<-release
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Go(func() {
			errs[i] = cache.Fetch(context.Background(), "/ws/1/repository/job/g:a", fetch)
		})
	}
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchCache_FailureIsRetried(t *testing.T) {
	cache := daemon.NewFetchCache()
	boom := errors.New("store unavailable")

	err := cache.Fetch(context.Background(), "/ws/1/reactor", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	var retried bool
	err = cache.Fetch(context.Background(), "/ws/1/reactor", func(context.Context) error {
		retried = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, retried)
}

func TestFetchCache_WaiterHonorsContext(t *testing.T) {
	cache := daemon.NewFetchCache()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cache.Fetch(context.Background(), "/ws/slow", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cache.Fetch(ctx, "/ws/slow", func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-done)
}

func TestFetchCache_Evict(t *testing.T) {
	cache := daemon.NewFetchCache()
	noop := func(context.Context) error { return nil }
	for _, dir := range []string{"/ws/r/1/reactor", "/ws/r/1/repository/a", "/ws/r/2/reactor", "/ws/r/10/reactor"} {
		require.NoError(t, cache.Fetch(context.Background(), dir, noop))
	}

	cache.Evict("/ws/r/1")

	assert.Equal(t, 2, cache.Len())
}
