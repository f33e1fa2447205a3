// Package runner drives agents through the day-by-day simulation loop.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/sim"
	"github.com/rustyeddy/equitysim/state"
)

// Decider produces the orders an agent wants to place for the current
// simulation day. Implementations live outside this module; the runner only
// consumes intents through the Sim's query and order surfaces. Deciders may
// read any cursor-bounded data off the Sim but must not retain it across
// days.
type Decider interface {
	Decide(ctx context.Context, s *sim.Sim) ([]sim.Order, error)
}

// Hold is a decider that never trades. Useful for dry runs: the simulation
// still produces a full snapshot curve of the idle account.
type Hold struct{}

func (Hold) Decide(ctx context.Context, s *sim.Sim) ([]sim.Order, error) {
	return nil, nil
}

// Runner executes one agent's simulation from its persisted cursor to the
// end of the calendar, saving state after every day. Rejected orders are
// logged and skipped; only store and data errors abort the run.
type Runner struct {
	Agent    string
	Capital  float64
	Gateway  market.Gateway
	Calendar market.Calendar
	Universe []market.Listing
	Engine   sim.Engine
	Store    state.Store
	Decider  Decider
	Log      *slog.Logger
}

// Run loads or initializes the agent's state and plays every remaining
// scheduled day. A day is complete once its snapshot is saved, so a crashed
// or resumed run continues at the next unrun date and never replays or
// double-counts a day.
func (r *Runner) Run(ctx context.Context) (*sim.AgentState, error) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("agent", r.Agent)

	st, ok, err := r.Store.Load(ctx, r.Agent)
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", r.Agent, err)
	}
	if !ok {
		st = sim.NewAgentState(r.Agent, r.Capital)
		log.Info("starting fresh", "capital", r.Capital)
	} else {
		log.Info("resuming", "cursor", st.CurrentDate, "trades", len(st.TradeHistory))
	}

	s, err := sim.NewSim(st, r.Gateway, r.Calendar, r.Engine, r.Universe)
	if err != nil {
		return nil, err
	}

	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := s.CurrentDate()

		orders, err := r.Decider.Decide(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("decide %s on %s: %w", r.Agent, date, err)
		}

		for _, ord := range orders {
			rec, err := s.SubmitOrder(ctx, ord)
			if err != nil {
				log.Warn("order rejected",
					"date", date, "action", ord.Action, "symbol", ord.Symbol,
					"shares", ord.Shares, "kind", sim.Kind(err), "err", err)
				continue
			}
			log.Info("order filled",
				"date", date, "action", rec.Action, "symbol", rec.Symbol,
				"shares", rec.Shares, "price", rec.Price, "fee", rec.Fee)
		}

		if err := s.AdvanceDay(ctx); err != nil {
			return nil, fmt.Errorf("advance %s past %s: %w", r.Agent, date, err)
		}
		if err := r.Store.Save(ctx, st); err != nil {
			// Persistence failures are fatal: continuing would let in-memory
			// state drift from what a resume would see.
			return nil, fmt.Errorf("save %s after %s: %w", r.Agent, date, err)
		}
	}

	log.Info("simulation complete", "cursor", st.CurrentDate, "trades", len(st.TradeHistory))
	return st, nil
}
