package state

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/sim"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	_, path := newTestSQLite(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'
		AND name IN ('agents','positions','trades','snapshots')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, table := range []string{"agents", "positions", "trades", "snapshots"} {
		assert.True(t, found[table], table)
	}
}

func TestSQLiteLoadAbsent(t *testing.T) {
	s, _ := newTestSQLite(t)

	st, ok, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, st)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLite(t)

	want := testState(t)
	require.NoError(t, s.Save(ctx, want))

	got, ok, err := s.Load(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assertStatesEqual(t, want, got)
}

func TestSQLiteSaveReplacesRows(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLite(t)

	st := testState(t)
	require.NoError(t, s.Save(ctx, st))

	// Sell out, add a second trade and snapshot, save again.
	delete(st.Portfolio.Positions, "AAA")
	st.Portfolio.Cash = 1_001_020.55
	st.CurrentDate = "2024-03-20"
	st.TradeHistory = append(st.TradeHistory, sim.TradeRecord{
		TradeID: "01HTESTTRADE2",
		Action:  sim.Sell,
		Symbol:  "AAA",
		Name:    "Acme Industries",
		Shares:  10000,
		Price:   4.00,
		Fee:     60.00,
		Date:    "2024-03-19",
		Reason:  "exit",
	})
	st.Snapshots["2024-03-19"] = sim.DailySnapshot{
		Date:       "2024-03-19",
		Cash:       1_001_020.55,
		TotalValue: 1_001_020.55,
	}
	require.NoError(t, s.Save(ctx, st))

	got, ok, err := s.Load(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Empty(t, got.Portfolio.Positions)
	assert.Equal(t, market.Date("2024-03-20"), got.CurrentDate)
	require.Len(t, got.TradeHistory, 2)
	assert.Equal(t, "01HTESTTRADE", got.TradeHistory[0].TradeID, "history order preserved")
	assert.Equal(t, "01HTESTTRADE2", got.TradeHistory[1].TradeID)
	assert.Len(t, got.Snapshots, 2)
}

func TestSQLiteIsolatesAgents(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLite(t)

	a := sim.NewAgentState("a", 100)
	b := sim.NewAgentState("b", 200)
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	got, ok, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 100.0, got.InitialCapital)
	assert.Empty(t, got.TradeHistory)
}
