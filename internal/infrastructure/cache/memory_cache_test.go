package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "report:dashboard")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`{"total_orders":3}`)
	require.NoError(t, s.Set(ctx, "report:dashboard", value, time.Minute))
	value[0] = 'X'

	got, ok, err := s.Get(ctx, "report:dashboard")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"total_orders":3}`, string(got), "stored copy is not aliased")
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(59 * time.Second)
	_, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)

	s.sweep()
	assert.Zero(t, s.Len())
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	for _, k := range []string{"report:dashboard", "report:top:10", "report:dispatch:2025-01-01", "other:key"} {
		require.NoError(t, s.Set(ctx, k, []byte("x"), time.Hour))
	}
	require.NoError(t, s.DeletePrefix(ctx, "report:"))

	assert.Equal(t, 1, s.Len())
	_, ok, _ := s.Get(ctx, "other:key")
	assert.True(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Set(ctx, "report:k", []byte("v"), time.Second)
				_, _, _ = s.Get(ctx, "report:k")
				_ = s.DeletePrefix(ctx, "report:")
			}
		}()
	}
	wg.Wait()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
