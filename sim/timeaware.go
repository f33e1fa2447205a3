package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/rustyeddy/equitysim/market"
)

// Sim drives one agent's day-by-day simulation and guarantees the agent
// never sees price data dated after the current simulation day. It owns the
// date cursor; every price read, including the fill-price resolution for
// orders, goes through PriceAt.
//
// A Sim is single-threaded: one agent, one portfolio, no overlapping
// mutation. Independent agents get independent Sims.
type Sim struct {
	state    *AgentState
	gw       market.Gateway
	cal      market.Calendar
	eng      Engine
	universe []market.Listing

	idx      int
	complete bool
}

// NewSim binds state to a trading calendar. A fresh state (no cursor) starts
// at the first scheduled date; a loaded state resumes at its persisted
// cursor, which must be on the calendar. A state whose final snapshot is
// already taken comes back complete.
func NewSim(st *AgentState, gw market.Gateway, cal market.Calendar, eng Engine, universe []market.Listing) (*Sim, error) {
	if len(cal) == 0 {
		return nil, fmt.Errorf("sim %s: empty trading calendar", st.AgentName)
	}

	s := &Sim{
		state:    st,
		gw:       gw,
		cal:      cal,
		eng:      eng,
		universe: universe,
	}

	if st.CurrentDate == "" {
		st.StartDate = cal[0]
		st.CurrentDate = cal[0]
		return s, nil
	}

	idx := cal.Index(st.CurrentDate)
	if idx < 0 {
		return nil, fmt.Errorf("sim %s: cursor %s is not on the calendar", st.AgentName, st.CurrentDate)
	}
	s.idx = idx

	if idx == len(cal)-1 {
		if _, ok := st.Snapshots[cal[idx]]; ok {
			s.complete = true
		}
	}
	return s, nil
}

func (s *Sim) State() *AgentState        { return s.state }
func (s *Sim) CurrentDate() market.Date  { return s.state.CurrentDate }
func (s *Sim) Calendar() market.Calendar { return s.cal }

// Done reports whether the final scheduled day has been closed out.
func (s *Sim) Done() bool { return s.complete }

// PriceAt is the single choke point for historical data access. Dates after
// the cursor fail with ErrFutureData; everything else forwards to the
// gateway, where absence (ok=false) is a valid non-error outcome.
func (s *Sim) PriceAt(ctx context.Context, symbol string, date market.Date) (market.Candle, bool, error) {
	if date.After(s.state.CurrentDate) {
		return market.Candle{}, false, fmt.Errorf("%s on %s (today is %s): %w",
			symbol, date, s.state.CurrentDate, ErrFutureData)
	}
	return s.gw.Candle(ctx, symbol, date)
}

// Listings returns the universe entries that are tradable as of the cursor,
// i.e. have a candle for the current date.
func (s *Sim) Listings(ctx context.Context) ([]market.Listing, error) {
	var out []market.Listing
	for _, l := range s.universe {
		_, ok, err := s.PriceAt(ctx, l.Symbol, s.state.CurrentDate)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// PositionStatus is one holding valued at the cursor date.
type PositionStatus struct {
	Symbol       string
	Name         string
	Shares       int64
	AvgCost      float64
	Price        float64
	MarketValue  float64
	UnrealizedPL float64
	Stale        bool
}

// PortfolioStatus is the agent-facing view of the account as of the cursor.
type PortfolioStatus struct {
	Date           market.Date
	Cash           float64
	PositionsValue float64
	TotalValue     float64
	ReturnPct      float64
	Stale          bool
	Positions      []PositionStatus
}

// PortfolioStatus values every holding at the cursor date's close. Holdings
// with no price for the cursor date are valued at average cost and flagged
// stale rather than dropped.
func (s *Sim) PortfolioStatus(ctx context.Context) (PortfolioStatus, error) {
	pf := s.state.Portfolio

	st := PortfolioStatus{
		Date: s.state.CurrentDate,
		Cash: pf.Cash,
	}

	symbols := make([]string, 0, len(pf.Positions))
	for sym := range pf.Positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		pos := pf.Positions[sym]

		c, ok, err := s.PriceAt(ctx, sym, s.state.CurrentDate)
		if err != nil {
			return PortfolioStatus{}, err
		}
		px := c.Close
		if !ok {
			px = pos.AvgCost
			st.Stale = true
		}

		ps := PositionStatus{
			Symbol:       sym,
			Name:         pos.Name,
			Shares:       pos.Shares,
			AvgCost:      pos.AvgCost,
			Price:        px,
			MarketValue:  pos.MarketValue(px),
			UnrealizedPL: pos.UnrealizedPL(px),
			Stale:        !ok,
		}
		st.PositionsValue += ps.MarketValue
		st.Positions = append(st.Positions, ps)
	}

	st.TotalValue = st.Cash + st.PositionsValue
	st.ReturnPct = s.state.ReturnPct(st.TotalValue)
	return st, nil
}

// SubmitOrder resolves the fill price at the cursor date, charges fees, and
// executes. The trade is appended to history only on success; a rejected
// order is reported back and leaves all state untouched.
func (s *Sim) SubmitOrder(ctx context.Context, ord Order) (TradeRecord, error) {
	if s.complete {
		return TradeRecord{}, fmt.Errorf("order for %s: %w", ord.Symbol, ErrSimulationComplete)
	}

	name := ord.Symbol
	member := len(s.universe) == 0
	for _, l := range s.universe {
		if l.Symbol == ord.Symbol {
			name = l.Name
			member = true
			break
		}
	}

	var (
		price   float64
		priceOK bool
	)
	if member {
		c, ok, err := s.PriceAt(ctx, ord.Symbol, s.state.CurrentDate)
		if err != nil {
			return TradeRecord{}, err
		}
		price, priceOK = c.Close, ok
	}

	rec, err := s.eng.Execute(s.state.Portfolio, ord, name, price, priceOK, s.state.CurrentDate)
	if err != nil {
		return TradeRecord{}, err
	}

	s.state.TradeHistory = append(s.state.TradeHistory, rec)
	return rec, nil
}

// AdvanceDay closes out the current trading day: it records the day's
// end-of-day snapshot, then moves the cursor to the next scheduled date.
// The snapshot is always taken after the day's trades and before any orders
// for the new date, so it never reflects a partial day. Closing the final
// scheduled day completes the simulation; after that AdvanceDay only
// reports ErrSimulationComplete.
func (s *Sim) AdvanceDay(ctx context.Context) error {
	if s.complete {
		return fmt.Errorf("advance past %s: %w", s.state.CurrentDate, ErrSimulationComplete)
	}

	if err := s.snapshot(ctx); err != nil {
		return err
	}

	if s.idx == len(s.cal)-1 {
		s.complete = true
		return nil
	}

	// Cursor is monotonic: one scheduled date forward, never back.
	s.idx++
	s.state.CurrentDate = s.cal[s.idx]
	return nil
}

func (s *Sim) snapshot(ctx context.Context) error {
	date := s.state.CurrentDate
	pf := s.state.Portfolio

	var lookupErr error
	total, stale := pf.MarketValue(func(sym string) (float64, bool) {
		c, ok, err := s.PriceAt(ctx, sym, date)
		if err != nil {
			lookupErr = err
			return 0, false
		}
		if !ok {
			return 0, false
		}
		return c.Close, true
	})
	if lookupErr != nil {
		return fmt.Errorf("snapshot %s: %w", date, lookupErr)
	}

	s.state.Snapshots[date] = DailySnapshot{
		Date:           date,
		Cash:           pf.Cash,
		PositionsValue: total - pf.Cash,
		TotalValue:     total,
		Stale:          stale,
	}
	return nil
}
