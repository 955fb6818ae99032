package pricing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/domain"
)

// StaticSource serves fixed prices from memory. Useful for offline runs
// and tests; any ticker without a configured price is unknown.
type StaticSource struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStaticSource creates a static price source from a ticker->price map.
func NewStaticSource(prices map[string]decimal.Decimal) *StaticSource {
	s := &StaticSource{prices: make(map[string]decimal.Decimal, len(prices))}
	for ticker, price := range prices {
		s.prices[strings.ToUpper(ticker)] = price
	}
	return s
}

// Set adds or replaces the price for a ticker.
func (s *StaticSource) Set(ticker string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[strings.ToUpper(ticker)] = price
}

// Price implements domain.PriceSource.
func (s *StaticSource) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	return price, nil
}

// PriceOn implements domain.PriceSource; static data has no history, so
// every date resolves to the configured price.
func (s *StaticSource) PriceOn(ctx context.Context, ticker string, day time.Time) (decimal.Decimal, error) {
	return s.Price(ctx, ticker)
}

// History implements domain.PriceSource with a single synthetic point.
func (s *StaticSource) History(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	price, err := s.Price(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return []domain.PricePoint{{Date: time.Now().UTC(), Close: price}}, nil
}
