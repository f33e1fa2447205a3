package market

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGateway tracks how often the underlying store is consulted.
type countingGateway struct {
	next  Gateway
	calls int
}

func (g *countingGateway) Candle(ctx context.Context, symbol string, date Date) (Candle, bool, error) {
	g.calls++
	return g.next.Candle(ctx, symbol, date)
}

func newTestCache(t *testing.T) (*Cache, *countingGateway) {
	t.Helper()

	mem := NewMemStore()
	mem.Add(Candle{Symbol: "AAA", Date: "2024-03-18", Open: 3.85, High: 3.95, Low: 3.80, Close: 3.89, Volume: 1000000})

	counting := &countingGateway{next: mem}

	mr := miniredis.RunT(t)
	cache, err := NewCache(mr.Addr(), counting)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, counting
}

func TestCacheReadThrough(t *testing.T) {
	cache, counting := newTestCache(t)
	ctx := context.Background()

	c, ok, err := cache.Candle(ctx, "AAA", "2024-03-18")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.89, c.Close)
	assert.Equal(t, 1, counting.calls)

	// Second read is served from Redis.
	c, ok, err = cache.Candle(ctx, "AAA", "2024-03-18")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.89, c.Close)
	assert.Equal(t, 1, counting.calls)
}

func TestCacheAbsenceNotCached(t *testing.T) {
	cache, counting := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Candle(ctx, "AAA", "2024-03-25")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cache.Candle(ctx, "AAA", "2024-03-25")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, counting.calls)
}

func TestCacheBadAddr(t *testing.T) {
	_, err := NewCache("127.0.0.1:1", NewMemStore())
	assert.Error(t, err)
}
