// Package fees computes transaction costs for simulated fills.
package fees

import "github.com/shopspring/decimal"

// Model maps a trade's notional value to its cost. Commission applies to
// both sides; stamp tax to sells only. MinCommission of zero disables the
// floor.
type Model struct {
	CommissionRate float64
	StampTaxRate   float64
	MinCommission  float64
}

func Default() Model {
	return Model{
		CommissionRate: 0.0005,
		StampTaxRate:   0.001,
	}
}

// Charge returns the fee for a trade of the given notional (shares times
// price). The result is rounded to currency precision, half up, at the end;
// intermediate terms are kept exact.
func (m Model) Charge(notional float64, sell bool) float64 {
	n := decimal.NewFromFloat(notional)

	fee := n.Mul(decimal.NewFromFloat(m.CommissionRate))
	if min := decimal.NewFromFloat(m.MinCommission); m.MinCommission > 0 && fee.LessThan(min) {
		fee = min
	}
	if sell {
		fee = fee.Add(n.Mul(decimal.NewFromFloat(m.StampTaxRate)))
	}

	// decimal.Round is round half away from zero; fees are never negative,
	// so this is round half up.
	f, _ := fee.Round(2).Float64()
	return f
}
