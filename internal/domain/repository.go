package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger is the durable store for cash movements, trades, holdings and
// realised gains. Every engine call runs inside exactly one unit of work:
// Tx commits when fn returns nil and rolls back every statement otherwise,
// so no partial state is ever visible to subsequent reads.
type Ledger interface {
	Tx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx exposes the store operations available inside a unit of work.
type LedgerTx interface {
	// CashBalance returns the sum of all cash entry amounts, 0 when empty.
	CashBalance(ctx context.Context) (decimal.Decimal, error)

	// TotalValue returns the sum of holding current values, 0 when empty.
	TotalValue(ctx context.Context) (decimal.Decimal, error)

	// UnrealisedDelta returns the sum over holdings of current value minus
	// cost basis, 0 when empty.
	UnrealisedDelta(ctx context.Context) (decimal.Decimal, error)

	// RealisedDelta returns the sum of all realised gain deltas, 0 when empty.
	RealisedDelta(ctx context.Context) (decimal.Decimal, error)

	// InsertCashEntry appends one immutable cash movement.
	InsertCashEntry(ctx context.Context, entry *CashEntry) error

	// InsertTradeEntry appends one immutable trade record.
	InsertTradeEntry(ctx context.Context, entry *TradeEntry) error

	// InsertRealisedGain appends the realised gain record for a sale.
	InsertRealisedGain(ctx context.Context, gain *RealisedGain) error

	// HoldingForUpdate returns the holding for a ticker, locked for the
	// remainder of the unit of work, or nil when the ticker is not held.
	HoldingForUpdate(ctx context.Context, ticker string) (*Holding, error)

	// SaveHolding inserts the holding or updates it by ticker.
	SaveHolding(ctx context.Context, holding *Holding) error

	// ListTrades returns all trades, most recent date first.
	ListTrades(ctx context.Context) ([]*TradeEntry, error)

	// ListTradesByTicker returns one ticker's trades, most recent date first.
	ListTradesByTicker(ctx context.Context, ticker string) ([]*TradeEntry, error)

	// ListHoldings returns every holding joined with its total realised
	// gain, ordered by ticker ascending.
	ListHoldings(ctx context.Context) ([]*HoldingReport, error)
}
