package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/sim"
)

// FileStore keeps one JSON document per agent under a directory. Saves go
// through a temp file in the same directory followed by a rename, so a
// crash mid-write never corrupts the previous state.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(agentName string) string {
	return filepath.Join(s.dir, agentName+"_state.json")
}

func (s *FileStore) Load(ctx context.Context, agentName string) (*sim.AgentState, bool, error) {
	data, err := os.ReadFile(s.path(agentName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %s: %w", agentName, err)
	}

	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode state %s: %w", agentName, err)
	}
	return doc.toState(), true, nil
}

func (s *FileStore) Save(ctx context.Context, st *sim.AgentState) error {
	st.LastUpdate = time.Now().UTC()

	data, err := json.MarshalIndent(docFromState(st), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state %s: %w", st.AgentName, err)
	}

	tmp, err := os.CreateTemp(s.dir, st.AgentName+"_state-*.json")
	if err != nil {
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}

	if err := os.Rename(tmpName, s.path(st.AgentName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// stateDoc is the persisted layout. Field names are part of the on-disk
// contract; keep them stable.
type stateDoc struct {
	AgentName      string                           `json:"agent_name"`
	InitialCapital float64                          `json:"initial_capital"`
	Cash           float64                          `json:"cash"`
	Positions      map[string]positionDoc           `json:"positions"`
	TradeHistory   []sim.TradeRecord                `json:"trade_history"`
	Snapshots      map[market.Date]sim.DailySnapshot `json:"daily_snapshots"`
	StartDate      market.Date                      `json:"simulation_start_date"`
	CurrentDate    market.Date                      `json:"simulation_current_date"`
	LastUpdate     time.Time                        `json:"last_update"`
}

type positionDoc struct {
	Name    string  `json:"name,omitempty"`
	Shares  int64   `json:"shares"`
	AvgCost float64 `json:"avg_cost"`
}

func docFromState(st *sim.AgentState) stateDoc {
	doc := stateDoc{
		AgentName:      st.AgentName,
		InitialCapital: st.InitialCapital,
		Cash:           st.Portfolio.Cash,
		Positions:      make(map[string]positionDoc, len(st.Portfolio.Positions)),
		TradeHistory:   st.TradeHistory,
		Snapshots:      st.Snapshots,
		StartDate:      st.StartDate,
		CurrentDate:    st.CurrentDate,
		LastUpdate:     st.LastUpdate,
	}
	for sym, pos := range st.Portfolio.Positions {
		doc.Positions[sym] = positionDoc{
			Name:    pos.Name,
			Shares:  pos.Shares,
			AvgCost: pos.AvgCost,
		}
	}
	return doc
}

func (d stateDoc) toState() *sim.AgentState {
	st := sim.NewAgentState(d.AgentName, d.InitialCapital)
	st.Portfolio.Cash = d.Cash
	for sym, pd := range d.Positions {
		st.Portfolio.Positions[sym] = &sim.Position{
			Symbol:  sym,
			Name:    pd.Name,
			Shares:  pd.Shares,
			AvgCost: pd.AvgCost,
		}
	}
	st.TradeHistory = d.TradeHistory
	if d.Snapshots != nil {
		st.Snapshots = d.Snapshots
	}
	st.StartDate = d.StartDate
	st.CurrentDate = d.CurrentDate
	st.LastUpdate = d.LastUpdate
	return st
}
