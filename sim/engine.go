package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/equitysim/fees"
	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/pkg/id"
)

// DefaultLotSize is the minimum tradable unit multiple.
const DefaultLotSize int64 = 100

// Engine validates and applies single orders against a portfolio. It holds
// no state of its own; the fill price is resolved by the caller, so the
// engine is lookahead-agnostic.
type Engine struct {
	Fees    fees.Model
	LotSize int64
}

func NewEngine(fm fees.Model) Engine {
	return Engine{Fees: fm, LotSize: DefaultLotSize}
}

// Execute applies ord to pf at the given fill price. priceOK=false means the
// caller found no data for the symbol on the fill date.
//
// Validation is fail-fast, first violation wins:
//  1. shares a positive multiple of the lot size
//  2. a positive, known price
//  3. funds or shares sufficiency
//
// On any error pf is untouched. No short selling, no margin.
func (e Engine) Execute(pf *Portfolio, ord Order, name string, price float64, priceOK bool, date market.Date) (TradeRecord, error) {
	lot := e.LotSize
	if lot <= 0 {
		lot = DefaultLotSize
	}

	if ord.Shares <= 0 || ord.Shares%lot != 0 {
		return TradeRecord{}, fmt.Errorf("%s %d shares of %s: %w (lot %d)",
			ord.Action, ord.Shares, ord.Symbol, ErrInvalidLotSize, lot)
	}
	if !priceOK || price <= 0 {
		return TradeRecord{}, fmt.Errorf("%s %s: no price on %s: %w",
			ord.Action, ord.Symbol, date, ErrInvalidSymbol)
	}

	notional := float64(ord.Shares) * price
	var fee, pl float64

	switch ord.Action {
	case Buy:
		fee = e.Fees.Charge(notional, false)
		if err := pf.ApplyBuy(ord.Symbol, name, ord.Shares, price, fee); err != nil {
			return TradeRecord{}, err
		}
	case Sell:
		fee = e.Fees.Charge(notional, true)
		var err error
		if pl, err = pf.ApplySell(ord.Symbol, ord.Shares, price, fee); err != nil {
			return TradeRecord{}, err
		}
	default:
		return TradeRecord{}, fmt.Errorf("unknown action %q", ord.Action)
	}

	return TradeRecord{
		TradeID:    id.New(),
		Action:     ord.Action,
		Symbol:     ord.Symbol,
		Name:       name,
		Shares:     ord.Shares,
		Price:      price,
		Fee:        fee,
		RealizedPL: pl,
		Date:       date,
		Timestamp:  time.Now().UTC(),
		Reason:     ord.Reason,
	}, nil
}
