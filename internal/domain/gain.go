package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RealisedGain records the profit or loss locked in by one sale:
// quantity sold times the difference between the sale price and the
// holding's average cost at the time of sale. Created exactly once per
// SELL trade and never mutated.
type RealisedGain struct {
	TradeID uuid.UUID // references the SELL TradeEntry
	Ticker  string
	Delta   decimal.Decimal // signed
	Date    time.Time
}
