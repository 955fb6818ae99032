package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashKind classifies a cash ledger movement
type CashKind string

const (
	CashDeposit  CashKind = "DEP"
	CashWithdraw CashKind = "WIT"
	CashBuy      CashKind = "BUY"
	CashSell     CashKind = "SELL"
)

// CashEntry represents one signed cash movement in the ledger.
// Entries are immutable once created; the current cash balance is the sum
// of all entry amounts. Deposits and withdrawals are created directly,
// BUY and SELL entries are created as the cash side of a trade.
type CashEntry struct {
	ID     uuid.UUID
	Amount decimal.Decimal // signed: positive for DEP/SELL, negative for WIT/BUY
	Kind   CashKind
	Date   time.Time
}

// Valid reports whether the kind is one of the four cash movement kinds
func (k CashKind) Valid() bool {
	switch k {
	case CashDeposit, CashWithdraw, CashBuy, CashSell:
		return true
	}
	return false
}
