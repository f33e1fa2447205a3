package sim

import "errors"

// Every rejection an order or query can produce. All are recoverable at the
// caller: a rejected order leaves the portfolio untouched and the simulation
// loop running. Store I/O failures are the only fatal class and are plain
// wrapped errors from the state package.
var (
	ErrInvalidLotSize     = errors.New("shares must be a positive multiple of the lot size")
	ErrInvalidSymbol      = errors.New("symbol is not tradable")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrFutureData         = errors.New("date is beyond the current simulation date")
	ErrSimulationComplete = errors.New("simulation is complete")
)

// Kind maps an error to a stable identifier for the order-submission reply
// surface, so the decision layer can branch without string matching.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLotSize):
		return "invalid_lot_size"
	case errors.Is(err, ErrInvalidSymbol):
		return "invalid_symbol"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, ErrFutureData):
		return "future_data"
	case errors.Is(err, ErrSimulationComplete):
		return "simulation_complete"
	default:
		return "internal"
	}
}
