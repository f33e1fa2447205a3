package sim

import (
	"time"

	"github.com/rustyeddy/equitysim/market"
)

// AgentState is the durable aggregate for one agent's simulation run:
// portfolio, full history, and the date cursor. Created once at first run,
// loaded and resumed on later runs, persisted after every simulated day.
type AgentState struct {
	AgentName      string
	InitialCapital float64
	Portfolio      *Portfolio
	TradeHistory   []TradeRecord
	Snapshots      map[market.Date]DailySnapshot
	StartDate      market.Date
	CurrentDate    market.Date
	LastUpdate     time.Time
}

// NewAgentState returns a fresh state with the full capital in cash and
// empty history. The caller sets the cursor by handing the state to NewSim.
func NewAgentState(name string, initialCapital float64) *AgentState {
	return &AgentState{
		AgentName:      name,
		InitialCapital: initialCapital,
		Portfolio:      NewPortfolio(initialCapital),
		Snapshots:      make(map[market.Date]DailySnapshot),
	}
}

// Return is the total gain or loss against initial capital, given a current
// total valuation.
func (s *AgentState) Return(totalValue float64) float64 {
	return totalValue - s.InitialCapital
}

// ReturnPct is Return as a percentage of initial capital.
func (s *AgentState) ReturnPct(totalValue float64) float64 {
	if s.InitialCapital == 0 {
		return 0
	}
	return (totalValue - s.InitialCapital) / s.InitialCapital * 100
}
