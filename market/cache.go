package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis cache in front of another Gateway. Candles
// for elapsed dates never change, so hits are stored without expiry. The
// cache is best-effort: a Redis write failure is ignored and absence is not
// cached.
type Cache struct {
	client *redis.Client
	next   Gateway
}

func NewCache(addr string, next Gateway) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}

	return &Cache{client: client, next: next}, nil
}

func (c *Cache) Candle(ctx context.Context, symbol string, date Date) (Candle, bool, error) {
	key := candleKey(symbol, date)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var cd Candle
		if jerr := json.Unmarshal([]byte(raw), &cd); jerr == nil {
			return cd, true, nil
		}
		// Unreadable entry: fall through and repopulate.
	} else if err != redis.Nil {
		return Candle{}, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	cd, ok, err := c.next.Candle(ctx, symbol, date)
	if err != nil || !ok {
		return cd, ok, err
	}

	if data, jerr := json.Marshal(cd); jerr == nil {
		_ = c.client.Set(ctx, key, data, 0).Err()
	}
	return cd, true, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func candleKey(symbol string, date Date) string {
	return fmt.Sprintf("candle:%s:%s", symbol, date)
}
