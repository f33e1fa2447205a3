package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/sim"
)

func testState(t *testing.T) *sim.AgentState {
	t.Helper()

	st := sim.NewAgentState("alpha", 1_000_000)
	st.StartDate = "2024-03-18"
	st.CurrentDate = "2024-03-19"
	st.Portfolio.Cash = 961_080.55
	st.Portfolio.Positions["AAA"] = &sim.Position{
		Symbol:  "AAA",
		Name:    "Acme Industries",
		Shares:  10000,
		AvgCost: 3.89,
	}
	st.TradeHistory = []sim.TradeRecord{{
		TradeID:   "01HTESTTRADE",
		Action:    sim.Buy,
		Symbol:    "AAA",
		Name:      "Acme Industries",
		Shares:    10000,
		Price:     3.89,
		Fee:       19.45,
		Date:      "2024-03-18",
		Timestamp: time.Date(2024, 3, 18, 15, 0, 0, 0, time.UTC),
		Reason:    "entry",
	}}
	st.Snapshots["2024-03-18"] = sim.DailySnapshot{
		Date:           "2024-03-18",
		Cash:           961_080.55,
		PositionsValue: 38_900,
		TotalValue:     999_980.55,
	}
	return st
}

func assertStatesEqual(t *testing.T, want, got *sim.AgentState) {
	t.Helper()

	assert.Equal(t, want.AgentName, got.AgentName)
	assert.Equal(t, want.InitialCapital, got.InitialCapital)
	assert.Equal(t, want.StartDate, got.StartDate)
	assert.Equal(t, want.CurrentDate, got.CurrentDate)
	assert.InDelta(t, want.Portfolio.Cash, got.Portfolio.Cash, 1e-9)
	assert.Equal(t, want.Portfolio.Positions, got.Portfolio.Positions)
	assert.Equal(t, want.Snapshots, got.Snapshots)

	require.Len(t, got.TradeHistory, len(want.TradeHistory))
	for i, w := range want.TradeHistory {
		g := got.TradeHistory[i]
		assert.True(t, w.Timestamp.Equal(g.Timestamp), "trade %d timestamp", i)
		w.Timestamp, g.Timestamp = time.Time{}, time.Time{}
		assert.Equal(t, w, g, "trade %d", i)
	}
}

func TestFileStoreLoadAbsent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	st, ok, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, st)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	want := testState(t)
	require.NoError(t, s.Save(ctx, want))
	assert.WithinDuration(t, time.Now(), want.LastUpdate, 5*time.Second)

	got, ok, err := s.Load(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assertStatesEqual(t, want, got)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	st := testState(t)
	require.NoError(t, s.Save(ctx, st))

	st.CurrentDate = "2024-03-20"
	st.Portfolio.Cash = 1_001_020.55
	delete(st.Portfolio.Positions, "AAA")
	require.NoError(t, s.Save(ctx, st))

	got, ok, err := s.Load(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, market.Date("2024-03-20"), got.CurrentDate)
	assert.Empty(t, got.Portfolio.Positions)

	// Saves rename over the old file; no temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alpha_state.json", entries[0].Name())
	assert.Equal(t, filepath.Join(dir, "alpha_state.json"), s.path("alpha"))
}

func TestFileStoreIsolatesAgents(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	a := sim.NewAgentState("a", 100)
	b := sim.NewAgentState("b", 200)
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	got, ok, err := s.Load(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 200.0, got.InitialCapital)
}
