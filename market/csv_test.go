package market

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCandlesCSV(t *testing.T) {
	path := writeFile(t, "candles.csv", `symbol,date,open,high,low,close,volume
AAA,2024-03-19,3.95,4.05,3.90,4.00,1200000
AAA,2024-03-18,3.85,3.95,3.80,3.89,1000000
BBB,2024-03-18,10.00,10.20,9.90,10.10,500000
`)

	store, err := LoadCandlesCSV(path)
	require.NoError(t, err)

	c, ok, err := store.Candle(context.Background(), "AAA", "2024-03-18")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Candle{
		Symbol: "AAA",
		Date:   "2024-03-18",
		Open:   3.85,
		High:   3.95,
		Low:    3.80,
		Close:  3.89,
		Volume: 1000000,
	}, c)

	_, ok, err = store.Candle(context.Background(), "AAA", "2024-03-20")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, Calendar{"2024-03-18", "2024-03-19"}, store.TradingDates())
}

func TestLoadCandlesCSVNoHeader(t *testing.T) {
	path := writeFile(t, "candles.csv", "AAA,2024-03-18,1,2,0.5,1.5,100\n")

	store, err := LoadCandlesCSV(path)
	require.NoError(t, err)

	_, ok, err := store.Candle(context.Background(), "AAA", "2024-03-18")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadCandlesCSVBadNumber(t *testing.T) {
	path := writeFile(t, "candles.csv", "AAA,2024-03-18,one,2,0.5,1.5,100\n")

	_, err := LoadCandlesCSV(path)
	assert.Error(t, err)
}

func TestLoadListingsCSV(t *testing.T) {
	path := writeFile(t, "listings.csv", `symbol,name,industry
AAA,Acme Industries,Manufacturing
BBB,Beta Works,Software
CCC,Gamma Holdings
`)

	ls, err := LoadListingsCSV(path)
	require.NoError(t, err)
	require.Len(t, ls, 3)
	assert.Equal(t, Listing{Symbol: "AAA", Name: "Acme Industries", Industry: "Manufacturing"}, ls[0])
	assert.Equal(t, Listing{Symbol: "CCC", Name: "Gamma Holdings"}, ls[2])
}

func TestCalendarWindow(t *testing.T) {
	cal := Calendar{"2024-03-18", "2024-03-19", "2024-03-20", "2024-03-21"}

	assert.Equal(t, cal, cal.Window("", ""))
	assert.Equal(t, Calendar{"2024-03-19", "2024-03-20"}, cal.Window("2024-03-19", "2024-03-20"))
	assert.Equal(t, Calendar{"2024-03-20", "2024-03-21"}, cal.Window("2024-03-20", ""))
	assert.Empty(t, cal.Window("2025-01-01", ""))

	assert.Equal(t, 2, cal.Index("2024-03-20"))
	assert.Equal(t, -1, cal.Index("1999-01-01"))
}
