package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeKind represents the direction of a trade
type TradeKind string

const (
	TradeBuy  TradeKind = "BUY"
	TradeSell TradeKind = "SELL"
)

// TradeEntry represents one buy or sell transaction.
// Immutable once created. CashImpact is the signed cash effect of the
// trade: -price*quantity for a BUY, +price*quantity for a SELL, and every
// trade has exactly one matching CashEntry with that amount.
type TradeEntry struct {
	ID         uuid.UUID
	Ticker     string
	Price      decimal.Decimal // per share, > 0
	Quantity   decimal.Decimal // > 0
	Kind       TradeKind
	CashImpact decimal.Decimal
	Date       time.Time
}

// Valid reports whether the kind is BUY or SELL
func (k TradeKind) Valid() bool {
	return k == TradeBuy || k == TradeSell
}
