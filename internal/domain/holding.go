package domain

import "github.com/shopspring/decimal"

// Holding is the aggregate position in one ticker: quantity owned,
// single-bucket weighted-average cost, and valuation at the last observed
// price. Mutated on every trade for its ticker. Quantity may reach exactly
// zero (the row stays, cost basis and value go to zero) but never negative.
type Holding struct {
	Ticker       string
	Quantity     decimal.Decimal // >= 0
	AverageCost  decimal.Decimal // > 0, weighted average across all buys
	LastPrice    decimal.Decimal // > 0, last observed market price
	CostBasis    decimal.Decimal // >= 0, total paid for currently-held shares
	CurrentValue decimal.Decimal // >= 0, quantity * last price
}

// UnrealisedDelta is the paper profit or loss on the held shares.
// Always derived from current value and cost basis, never stored.
func (h *Holding) UnrealisedDelta() decimal.Decimal {
	return h.CurrentValue.Sub(h.CostBasis)
}

// HoldingReport is a holding joined with the total realised gain locked in
// by completed sales of its ticker (zero when the ticker has no sales).
type HoldingReport struct {
	Holding
	RealisedDelta decimal.Decimal
}
