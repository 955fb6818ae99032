// Package memstore provides an in-memory Ledger for tests and demo runs.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/domain"
)

type state struct {
	cash     []domain.CashEntry
	trades   []domain.TradeEntry
	holdings map[string]domain.Holding
	gains    []domain.RealisedGain
}

func (s *state) clone() *state {
	out := &state{
		cash:     append([]domain.CashEntry(nil), s.cash...),
		trades:   append([]domain.TradeEntry(nil), s.trades...),
		holdings: make(map[string]domain.Holding, len(s.holdings)),
		gains:    append([]domain.RealisedGain(nil), s.gains...),
	}
	for ticker, h := range s.holdings {
		out.holdings[ticker] = h
	}
	return out
}

// Store is an in-memory Ledger. Each unit of work runs against a copy of
// the state; the copy replaces the state only when the callback succeeds,
// which gives the same commit-or-rollback contract as the SQL store.
type Store struct {
	mu    sync.Mutex
	state *state
}

// New creates an empty in-memory ledger
func New() *Store {
	return &Store{state: &state{holdings: make(map[string]domain.Holding)}}
}

// Tx implements domain.Ledger.
func (s *Store) Tx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&ledgerTx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type ledgerTx struct {
	state *state
}

func (t *ledgerTx) CashBalance(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range t.state.cash {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (t *ledgerTx) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, h := range t.state.holdings {
		sum = sum.Add(h.CurrentValue)
	}
	return sum, nil
}

func (t *ledgerTx) UnrealisedDelta(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, h := range t.state.holdings {
		sum = sum.Add(h.UnrealisedDelta())
	}
	return sum, nil
}

func (t *ledgerTx) RealisedDelta(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, g := range t.state.gains {
		sum = sum.Add(g.Delta)
	}
	return sum, nil
}

func (t *ledgerTx) InsertCashEntry(ctx context.Context, entry *domain.CashEntry) error {
	t.state.cash = append(t.state.cash, *entry)
	return nil
}

func (t *ledgerTx) InsertTradeEntry(ctx context.Context, entry *domain.TradeEntry) error {
	t.state.trades = append(t.state.trades, *entry)
	return nil
}

func (t *ledgerTx) InsertRealisedGain(ctx context.Context, gain *domain.RealisedGain) error {
	t.state.gains = append(t.state.gains, *gain)
	return nil
}

func (t *ledgerTx) HoldingForUpdate(ctx context.Context, ticker string) (*domain.Holding, error) {
	h, ok := t.state.holdings[ticker]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (t *ledgerTx) SaveHolding(ctx context.Context, holding *domain.Holding) error {
	t.state.holdings[holding.Ticker] = *holding
	return nil
}

func (t *ledgerTx) ListTrades(ctx context.Context) ([]*domain.TradeEntry, error) {
	return t.listTrades(""), nil
}

func (t *ledgerTx) ListTradesByTicker(ctx context.Context, ticker string) ([]*domain.TradeEntry, error) {
	return t.listTrades(ticker), nil
}

func (t *ledgerTx) listTrades(ticker string) []*domain.TradeEntry {
	out := make([]*domain.TradeEntry, 0, len(t.state.trades))
	for i := range t.state.trades {
		e := t.state.trades[i]
		if ticker == "" || e.Ticker == ticker {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (t *ledgerTx) ListHoldings(ctx context.Context) ([]*domain.HoldingReport, error) {
	out := make([]*domain.HoldingReport, 0, len(t.state.holdings))
	for _, h := range t.state.holdings {
		report := &domain.HoldingReport{Holding: h, RealisedDelta: decimal.Zero}
		for _, g := range t.state.gains {
			if g.Ticker == h.Ticker {
				report.RealisedDelta = report.RealisedDelta.Add(g.Delta)
			}
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}
