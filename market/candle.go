package market

// Date is a canonical trading date in ISO form, e.g. "2024-03-18".
// ISO dates order correctly as strings, so cursor comparisons are plain
// string comparisons. The engine never validates calendar correctness;
// the scheduled date sequence is supplied externally.
type Date string

func (d Date) Before(o Date) bool { return d < o }
func (d Date) After(o Date) bool  { return d > o }

// Candle is one symbol's daily OHLCV record. All orders fill at Close.
type Candle struct {
	Symbol string  `json:"symbol"`
	Date   Date    `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}
