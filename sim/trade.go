package sim

import (
	"time"

	"github.com/rustyeddy/equitysim/market"
)

type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Order is a single intent from the decision layer.
type Order struct {
	Action Action
	Symbol string
	Shares int64
	Reason string
}

// TradeRecord is an immutable log entry for one executed fill. Failed
// orders never produce a record.
type TradeRecord struct {
	TradeID    string      `json:"trade_id"`
	Action     Action      `json:"action"`
	Symbol     string      `json:"symbol"`
	Name       string      `json:"name"`
	Shares     int64       `json:"shares"`
	Price      float64     `json:"price"`
	Fee        float64     `json:"fee"`
	RealizedPL float64     `json:"realized_pl"`
	Date       market.Date `json:"date"`
	Timestamp  time.Time   `json:"timestamp"`
	Reason     string      `json:"reason"`
}

// DailySnapshot records one agent's end-of-day valuation. Keyed by date:
// re-recording a date overwrites. Stale means at least one position was
// valued at average cost because no price was available.
type DailySnapshot struct {
	Date           market.Date `json:"date"`
	Cash           float64     `json:"cash"`
	PositionsValue float64     `json:"positions_value"`
	TotalValue     float64     `json:"total_value"`
	Stale          bool        `json:"stale,omitempty"`
}
