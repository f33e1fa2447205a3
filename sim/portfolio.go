package sim

import "fmt"

// Position is one symbol's holding. Shares stay non-negative; an entry
// exists only while shares > 0.
type Position struct {
	Symbol  string
	Name    string
	Shares  int64
	AvgCost float64
}

func (p Position) MarketValue(price float64) float64 {
	return float64(p.Shares) * price
}

func (p Position) UnrealizedPL(price float64) float64 {
	return float64(p.Shares) * (price - p.AvgCost)
}

// Portfolio is one agent's cash plus holdings. It is owned by a single
// simulation run and mutated only through Engine.Execute.
type Portfolio struct {
	Cash      float64
	Positions map[string]*Position
}

func NewPortfolio(cash float64) *Portfolio {
	return &Portfolio{
		Cash:      cash,
		Positions: make(map[string]*Position),
	}
}

// ApplyBuy debits shares*price+fee and folds the fill into the position's
// weighted-average cost. The fee is not part of the cost basis.
func (pf *Portfolio) ApplyBuy(symbol, name string, shares int64, price, fee float64) error {
	cost := float64(shares)*price + fee
	if cost > pf.Cash {
		return fmt.Errorf("buy %s: need %.2f, have %.2f: %w", symbol, cost, pf.Cash, ErrInsufficientFunds)
	}

	pf.Cash -= cost

	pos, ok := pf.Positions[symbol]
	if !ok {
		pf.Positions[symbol] = &Position{
			Symbol:  symbol,
			Name:    name,
			Shares:  shares,
			AvgCost: price,
		}
		return nil
	}

	total := pos.Shares + shares
	pos.AvgCost = (pos.AvgCost*float64(pos.Shares) + price*float64(shares)) / float64(total)
	pos.Shares = total
	return nil
}

// ApplySell credits shares*price-fee and reduces the position; average cost
// of the remaining shares is unchanged. The entry is removed when shares
// reach zero. Returns the realized P&L net of this trade's fee.
func (pf *Portfolio) ApplySell(symbol string, shares int64, price, fee float64) (float64, error) {
	pos, ok := pf.Positions[symbol]
	if !ok || pos.Shares < shares {
		var held int64
		if ok {
			held = pos.Shares
		}
		return 0, fmt.Errorf("sell %s: hold %d, want %d: %w", symbol, held, shares, ErrInsufficientShares)
	}

	pl := float64(shares)*(price-pos.AvgCost) - fee

	pf.Cash += float64(shares)*price - fee
	pos.Shares -= shares
	if pos.Shares == 0 {
		delete(pf.Positions, symbol)
	}
	return pl, nil
}

// PriceFunc resolves the latest known price for a held symbol. ok=false
// means no price is available.
type PriceFunc func(symbol string) (price float64, ok bool)

// MarketValue returns cash plus the value of all holdings. A position whose
// price is unavailable is valued at its average cost instead of failing the
// whole computation; stale reports whether that fallback was used anywhere.
func (pf *Portfolio) MarketValue(price PriceFunc) (total float64, stale bool) {
	total = pf.Cash
	for _, pos := range pf.Positions {
		px, ok := price(pos.Symbol)
		if !ok {
			px = pos.AvgCost
			stale = true
		}
		total += pos.MarketValue(px)
	}
	return total, stale
}
