package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCandlesCSV reads daily candles into a MemStore. Expected columns:
//
//	symbol,date,open,high,low,close,volume
//
// with date in ISO form. A single header row is allowed. Short or empty
// rows are skipped.
func LoadCandlesCSV(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	store := NewMemStore()
	sawFirst := false

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candles %s: %w", path, err)
		}
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "symbol") {
				continue
			}
		}
		if len(row) < 7 {
			continue
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse candles %s: %w", path, err)
		}
		store.Add(c)
	}

	return store, nil
}

func parseCandleRow(row []string) (Candle, error) {
	vals := make([]float64, 5)
	for i, field := range row[2:7] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("field %q: %w", field, err)
		}
		vals[i] = v
	}

	return Candle{
		Symbol: strings.TrimSpace(row[0]),
		Date:   Date(strings.TrimSpace(row[1])),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// LoadListingsCSV reads the tradable universe. Expected columns:
//
//	symbol,name,industry
//
// A single header row is allowed; industry is optional.
func LoadListingsCSV(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []Listing
	sawFirst := false

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read listings %s: %w", path, err)
		}
		if len(row) < 2 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "symbol") {
				continue
			}
		}

		l := Listing{
			Symbol: strings.TrimSpace(row[0]),
			Name:   strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			l.Industry = strings.TrimSpace(row[2])
		}
		out = append(out, l)
	}

	return out, nil
}
