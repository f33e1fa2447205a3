package market

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Gateway keyed by symbol and date.
type MemStore struct {
	mu      sync.RWMutex
	candles map[string]map[Date]Candle
}

func NewMemStore() *MemStore {
	return &MemStore{candles: make(map[string]map[Date]Candle)}
}

func (s *MemStore) Add(c Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days, ok := s.candles[c.Symbol]
	if !ok {
		days = make(map[Date]Candle)
		s.candles[c.Symbol] = days
	}
	days[c.Date] = c
}

func (s *MemStore) Candle(ctx context.Context, symbol string, date Date) (Candle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candles[symbol][date]
	return c, ok, nil
}

// TradingDates returns every date that has at least one candle, sorted
// ascending. Useful for deriving a simulation calendar from a dataset.
func (s *MemStore) TradingDates() Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[Date]struct{}{}
	for _, days := range s.candles {
		for d := range days {
			seen[d] = struct{}{}
		}
	}

	out := make(Calendar, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
