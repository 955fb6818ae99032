package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource returns market prices for tickers. Implementations fail with
// ErrUnknownTicker when a symbol has no market data.
type PriceSource interface {
	// Price returns the current price for a ticker.
	Price(ctx context.Context, ticker string) (decimal.Decimal, error)

	// PriceOn returns the closing price for a ticker on a calendar day.
	PriceOn(ctx context.Context, ticker string, day time.Time) (decimal.Decimal, error)

	// History returns daily close prices and volumes for the past year.
	History(ctx context.Context, ticker string) ([]PricePoint, error)
}

// PricePoint is one day of market data for a ticker.
type PricePoint struct {
	Date   time.Time
	Close  decimal.Decimal
	Volume int64
}
