package market

import "context"

// Gateway supplies daily OHLCV records. ok=false means no record exists for
// that symbol and date (unlisted, suspended, delisted) and is not an error.
// Records for elapsed dates are append-only and immutable, so implementations
// are free to cache aggressively. Must be safe for concurrent reads.
type Gateway interface {
	Candle(ctx context.Context, symbol string, date Date) (c Candle, ok bool, err error)
}

// Listing describes one tradable symbol in the simulation universe.
type Listing struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
}
