package lookup_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rratsunrollun/rollun-usps/pkg/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_FetchOnce(t *testing.T) {
	cache := lookup.New()
	var calls int

	fetch := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("payload"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := cache.Fetch(context.Background(), "https://datastore/api/x", fetch)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(got))
	}

	assert.Equal(t, 1, calls)
	stats := cache.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestCache_ErrorsNotStored(t *testing.T) {
	cache := lookup.New()
	var calls int

	fail := func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, errors.New("connection refused")
	}

	_, err := cache.Fetch(context.Background(), "k", fail)
	assert.Error(t, err)
	_, err = cache.Fetch(context.Background(), "k", fail)
	assert.Error(t, err)

	assert.Equal(t, 2, calls)
	assert.Zero(t, cache.Stats().Entries)
}

func TestCache_SingleFlight(t *testing.T) {
	cache := lookup.New()
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Fetch(context.Background(), "shared", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "v", string(got))
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_Nil(t *testing.T) {
	var cache *lookup.Cache
	var calls int

	fetch := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}

	_, _ = cache.Fetch(context.Background(), "k", fetch)
	_, _ = cache.Fetch(context.Background(), "k", fetch)

	assert.Equal(t, 2, calls)
	assert.Equal(t, lookup.Stats{}, cache.Stats())
}

func TestCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	cache := lookup.New()
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context) ([]byte, error) {
		close(started)
		select {
		case <-release:
			return []byte("v"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cache.Fetch(leaderCtx, "shared", fetch)
		leaderErr <- err
	}()
	<-started

	type result struct {
		data []byte
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		data, err := cache.Fetch(context.Background(), "shared", fetch)
		follower <- result{data, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "v", string(got.data))
	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestCache_CallerStopsWaitingOnOwnContext(t *testing.T) {
	cache := lookup.New()
	release := make(chan struct{})
	defer close(release)

	fetch := func(ctx context.Context) ([]byte, error) {
		<-release
		return []byte("v"), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := cache.Fetch(ctx, "slow", fetch)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
