package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/sim"
)

// SQLiteStore persists all agents in one database. Each Save rewrites the
// agent's rows inside a single transaction, which gives the same
// all-or-nothing guarantee as the file store's rename. State per agent is
// small (one row per position, trade, and day), so the rewrite is cheap.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st *sim.AgentState) error {
	st.LastUpdate = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO agents (agent_name, initial_capital, cash, start_date, cursor_date, last_update)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(agent_name) DO UPDATE SET
			cash = excluded.cash,
			start_date = excluded.start_date,
			cursor_date = excluded.cursor_date,
			last_update = excluded.last_update`,
		st.AgentName, st.InitialCapital, st.Portfolio.Cash,
		string(st.StartDate), string(st.CurrentDate), st.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}

	for _, table := range []string{"positions", "trades", "snapshots"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE agent_name = ?`, st.AgentName); err != nil {
			return fmt.Errorf("save state %s: clear %s: %w", st.AgentName, table, err)
		}
	}

	for sym, pos := range st.Portfolio.Positions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO positions (agent_name, symbol, name, shares, avg_cost)
			VALUES (?, ?, ?, ?, ?)`,
			st.AgentName, sym, pos.Name, pos.Shares, pos.AvgCost,
		)
		if err != nil {
			return fmt.Errorf("save state %s: position %s: %w", st.AgentName, sym, err)
		}
	}

	for i, rec := range st.TradeHistory {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trades
			(trade_id, agent_name, seq, action, symbol, name, shares, price, fee, realized_pl, trade_date, recorded_at, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.TradeID, st.AgentName, i, string(rec.Action), rec.Symbol, rec.Name,
			rec.Shares, rec.Price, rec.Fee, rec.RealizedPL,
			string(rec.Date), rec.Timestamp, rec.Reason,
		)
		if err != nil {
			return fmt.Errorf("save state %s: trade %s: %w", st.AgentName, rec.TradeID, err)
		}
	}

	for _, snap := range st.Snapshots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (agent_name, snap_date, cash, positions_value, total_value, stale)
			VALUES (?, ?, ?, ?, ?, ?)`,
			st.AgentName, string(snap.Date), snap.Cash, snap.PositionsValue, snap.TotalValue, snap.Stale,
		)
		if err != nil {
			return fmt.Errorf("save state %s: snapshot %s: %w", st.AgentName, snap.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save state %s: %w", st.AgentName, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, agentName string) (*sim.AgentState, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT initial_capital, cash, start_date, cursor_date, last_update
		FROM agents WHERE agent_name = ?`, agentName)

	var (
		capital, cash      float64
		startDate, curDate string
		lastUpdate         time.Time
	)
	err := row.Scan(&capital, &cash, &startDate, &curDate, &lastUpdate)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %s: %w", agentName, err)
	}

	st := sim.NewAgentState(agentName, capital)
	st.Portfolio.Cash = cash
	st.StartDate = market.Date(startDate)
	st.CurrentDate = market.Date(curDate)
	st.LastUpdate = lastUpdate

	if err := s.loadPositions(ctx, st); err != nil {
		return nil, false, err
	}
	if err := s.loadTrades(ctx, st); err != nil {
		return nil, false, err
	}
	if err := s.loadSnapshots(ctx, st); err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (s *SQLiteStore) loadPositions(ctx context.Context, st *sim.AgentState) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, shares, avg_cost
		FROM positions WHERE agent_name = ?`, st.AgentName)
	if err != nil {
		return fmt.Errorf("load positions %s: %w", st.AgentName, err)
	}
	defer rows.Close()

	for rows.Next() {
		pos := &sim.Position{}
		if err := rows.Scan(&pos.Symbol, &pos.Name, &pos.Shares, &pos.AvgCost); err != nil {
			return fmt.Errorf("load positions %s: %w", st.AgentName, err)
		}
		st.Portfolio.Positions[pos.Symbol] = pos
	}
	return rows.Err()
}

func (s *SQLiteStore) loadTrades(ctx context.Context, st *sim.AgentState) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, action, symbol, name, shares, price, fee, realized_pl, trade_date, recorded_at, reason
		FROM trades WHERE agent_name = ? ORDER BY seq ASC`, st.AgentName)
	if err != nil {
		return fmt.Errorf("load trades %s: %w", st.AgentName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec       sim.TradeRecord
			action    string
			tradeDate string
		)
		if err := rows.Scan(
			&rec.TradeID, &action, &rec.Symbol, &rec.Name, &rec.Shares,
			&rec.Price, &rec.Fee, &rec.RealizedPL, &tradeDate, &rec.Timestamp, &rec.Reason,
		); err != nil {
			return fmt.Errorf("load trades %s: %w", st.AgentName, err)
		}
		rec.Action = sim.Action(action)
		rec.Date = market.Date(tradeDate)
		st.TradeHistory = append(st.TradeHistory, rec)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadSnapshots(ctx context.Context, st *sim.AgentState) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT snap_date, cash, positions_value, total_value, stale
		FROM snapshots WHERE agent_name = ?`, st.AgentName)
	if err != nil {
		return fmt.Errorf("load snapshots %s: %w", st.AgentName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			snap     sim.DailySnapshot
			snapDate string
		)
		if err := rows.Scan(&snapDate, &snap.Cash, &snap.PositionsValue, &snap.TotalValue, &snap.Stale); err != nil {
			return fmt.Errorf("load snapshots %s: %w", st.AgentName, err)
		}
		snap.Date = market.Date(snapDate)
		st.Snapshots[snap.Date] = snap
	}
	return rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
