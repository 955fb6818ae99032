package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/domain"
)

// DateLayout is the calendar-date format accepted and exposed by the engine.
const DateLayout = "2006-01-02"

// Service is the portfolio engine. It enforces the balance and holdings
// invariants, computes weighted-average cost and posts cash and gain
// entries consistently. Every method runs its reads and writes inside one
// store transaction; price lookups happen before the transaction opens.
type Service struct {
	Ledger domain.Ledger
	Prices domain.PriceSource

	log zerolog.Logger
	now func() time.Time
}

// NewService creates a new portfolio engine instance
func NewService(ledger domain.Ledger, prices domain.PriceSource, log zerolog.Logger) *Service {
	return &Service{
		Ledger: ledger,
		Prices: prices,
		log:    log.With().Str("component", "portfolio").Logger(),
		now:    time.Now,
	}
}

// TradeInput represents the input for recording a buy or sell
type TradeInput struct {
	Ticker   string
	Quantity decimal.Decimal
	Kind     domain.TradeKind
	Date     string           // optional, YYYY-MM-DD; empty means today
	Price    *decimal.Decimal // optional manual price; nil means price source lookup
}

// Summary holds the portfolio-level aggregates.
type Summary struct {
	CashBalance     decimal.Decimal
	TotalValue      decimal.Decimal
	UnrealisedDelta decimal.Decimal
	RealisedDelta   decimal.Decimal
}

// UpdateCash records a deposit or withdrawal as one signed cash entry.
// The amount must be positive and the kind must be CashDeposit or
// CashWithdraw; a withdrawal exceeding the current balance is rejected
// without touching the store.
func (s *Service) UpdateCash(ctx context.Context, amount decimal.Decimal, kind domain.CashKind) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidArgument)
	}
	if kind != domain.CashDeposit && kind != domain.CashWithdraw {
		return fmt.Errorf("%w: cash update kind must be %s or %s", domain.ErrInvalidArgument, domain.CashDeposit, domain.CashWithdraw)
	}

	amount = amount.Round(2)

	return s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		if kind == domain.CashWithdraw {
			balance, err := tx.CashBalance(ctx)
			if err != nil {
				return err
			}
			if amount.GreaterThan(balance) {
				return fmt.Errorf("%w: tried to withdraw %s with balance %s",
					domain.ErrInsufficientFunds, amount.StringFixed(2), balance.StringFixed(2))
			}
		}

		signed := amount
		if kind == domain.CashWithdraw {
			signed = amount.Neg()
		}

		entry := &domain.CashEntry{
			ID:     uuid.New(),
			Amount: signed,
			Kind:   kind,
			Date:   s.today(),
		}
		if err := tx.InsertCashEntry(ctx, entry); err != nil {
			return err
		}

		s.log.Info().Str("kind", string(kind)).Str("amount", amount.StringFixed(2)).Msg("cash updated")
		return nil
	})
}

// RecordTrade validates, prices and posts one buy or sell. On success the
// trade entry, the holding mutation, the cash entry and (for sales) the
// realised gain record are committed atomically; on any failure nothing is.
func (s *Service) RecordTrade(ctx context.Context, input TradeInput) (*domain.TradeEntry, error) {
	ticker := strings.ToUpper(strings.TrimSpace(input.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", domain.ErrInvalidArgument)
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: number of shares must be greater than zero", domain.ErrInvalidArgument)
	}
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: trade kind must be %s or %s", domain.ErrInvalidArgument, domain.TradeBuy, domain.TradeSell)
	}
	if input.Price != nil && input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price must be greater than zero", domain.ErrInvalidArgument)
	}

	tradeDate := s.today()
	if input.Date != "" {
		parsed, err := time.Parse(DateLayout, input.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", domain.ErrInvalidArgument)
		}
		tradeDate = parsed
	}

	// The current price always comes from the source: it validates the
	// ticker and becomes the holding's last observed price.
	currentPrice, err := s.Prices.Price(ctx, ticker)
	if err != nil {
		return nil, err
	}

	price := currentPrice
	switch {
	case input.Price != nil:
		price = input.Price.Round(2)
	case input.Date != "":
		price, err = s.Prices.PriceOn(ctx, ticker, tradeDate)
		if err != nil {
			return nil, err
		}
	}

	value := price.Mul(input.Quantity).Round(2)

	entry := &domain.TradeEntry{
		ID:       uuid.New(),
		Ticker:   ticker,
		Price:    price,
		Quantity: input.Quantity,
		Kind:     input.Kind,
		Date:     tradeDate,
	}
	if input.Kind == domain.TradeBuy {
		entry.CashImpact = value.Neg()
	} else {
		entry.CashImpact = value
	}

	err = s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		if input.Kind == domain.TradeBuy {
			return s.applyBuy(ctx, tx, entry, currentPrice, value)
		}
		return s.applySell(ctx, tx, entry, currentPrice, value)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("kind", string(input.Kind)).
		Str("ticker", ticker).
		Str("quantity", input.Quantity.String()).
		Str("price", price.StringFixed(2)).
		Msg("trade recorded")
	return entry, nil
}

// applyBuy posts a buy: cash check, trade entry, holding upsert with the
// weighted-average cost recomputed, and the negative cash entry.
func (s *Service) applyBuy(ctx context.Context, tx domain.LedgerTx, entry *domain.TradeEntry, currentPrice, value decimal.Decimal) error {
	balance, err := tx.CashBalance(ctx)
	if err != nil {
		return err
	}
	if value.GreaterThan(balance) {
		return fmt.Errorf("%w: needed %s but only %s available",
			domain.ErrInsufficientFunds, value.StringFixed(2), balance.StringFixed(2))
	}

	if err := tx.InsertTradeEntry(ctx, entry); err != nil {
		return err
	}

	holding, err := tx.HoldingForUpdate(ctx, entry.Ticker)
	if err != nil {
		return err
	}
	if holding == nil {
		holding = &domain.Holding{
			Ticker:       entry.Ticker,
			Quantity:     entry.Quantity,
			AverageCost:  entry.Price.Round(2),
			LastPrice:    currentPrice,
			CostBasis:    value,
			CurrentValue: entry.Quantity.Mul(currentPrice).Round(2),
		}
	} else {
		newQuantity := holding.Quantity.Add(entry.Quantity)
		holding.AverageCost = holding.Quantity.Mul(holding.AverageCost).
			Add(entry.Quantity.Mul(entry.Price)).
			Div(newQuantity).
			Round(2)
		holding.CostBasis = holding.CostBasis.Add(entry.Quantity.Mul(entry.Price)).Round(2)
		holding.Quantity = newQuantity
		holding.LastPrice = currentPrice
		holding.CurrentValue = newQuantity.Mul(currentPrice).Round(2)
	}
	if err := tx.SaveHolding(ctx, holding); err != nil {
		return err
	}

	return tx.InsertCashEntry(ctx, &domain.CashEntry{
		ID:     uuid.New(),
		Amount: value.Neg(),
		Kind:   domain.CashBuy,
		Date:   entry.Date,
	})
}

// applySell posts a sale: share check, trade entry, holding update with the
// cost basis rescaled at constant average cost, the positive cash entry and
// the realised gain computed against the pre-sale average cost.
func (s *Service) applySell(ctx context.Context, tx domain.LedgerTx, entry *domain.TradeEntry, currentPrice, value decimal.Decimal) error {
	holding, err := tx.HoldingForUpdate(ctx, entry.Ticker)
	if err != nil {
		return err
	}
	if holding == nil || holding.Quantity.LessThan(entry.Quantity) {
		held := decimal.Zero
		if holding != nil {
			held = holding.Quantity
		}
		return fmt.Errorf("%w: tried to sell %s shares of %s but hold %s",
			domain.ErrInsufficientShares, entry.Quantity.String(), entry.Ticker, held.String())
	}

	if err := tx.InsertTradeEntry(ctx, entry); err != nil {
		return err
	}

	averageCostBefore := holding.AverageCost

	// Rescale the cost basis by the remaining-quantity fraction so the
	// average cost per share stays constant across a partial sale.
	remaining := holding.Quantity.Sub(entry.Quantity)
	holding.CostBasis = holding.CostBasis.Div(holding.Quantity).Mul(remaining).Round(2)
	holding.Quantity = remaining
	holding.LastPrice = currentPrice
	holding.CurrentValue = remaining.Mul(currentPrice).Round(2)

	if err := tx.SaveHolding(ctx, holding); err != nil {
		return err
	}

	if err := tx.InsertCashEntry(ctx, &domain.CashEntry{
		ID:     uuid.New(),
		Amount: value,
		Kind:   domain.CashSell,
		Date:   entry.Date,
	}); err != nil {
		return err
	}

	delta := entry.Quantity.Mul(entry.Price.Sub(averageCostBefore)).Round(2)
	return tx.InsertRealisedGain(ctx, &domain.RealisedGain{
		TradeID: entry.ID,
		Ticker:  entry.Ticker,
		Delta:   delta,
		Date:    entry.Date,
	})
}

// CashBalance returns the current cash balance.
func (s *Service) CashBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.aggregate(ctx, domain.LedgerTx.CashBalance)
}

// TotalValue returns the current value of all holdings.
func (s *Service) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	return s.aggregate(ctx, domain.LedgerTx.TotalValue)
}

// UnrealisedDelta returns the paper profit or loss across all holdings.
func (s *Service) UnrealisedDelta(ctx context.Context) (decimal.Decimal, error) {
	return s.aggregate(ctx, domain.LedgerTx.UnrealisedDelta)
}

// RealisedDelta returns the total profit or loss locked in by sales.
func (s *Service) RealisedDelta(ctx context.Context) (decimal.Decimal, error) {
	return s.aggregate(ctx, domain.LedgerTx.RealisedDelta)
}

// Summary returns all four portfolio aggregates in one unit of work.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	err := s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		var err error
		if out.CashBalance, err = tx.CashBalance(ctx); err != nil {
			return err
		}
		if out.TotalValue, err = tx.TotalValue(ctx); err != nil {
			return err
		}
		if out.UnrealisedDelta, err = tx.UnrealisedDelta(ctx); err != nil {
			return err
		}
		out.RealisedDelta, err = tx.RealisedDelta(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions returns the full trade history, most recent first.
func (s *Service) Transactions(ctx context.Context) ([]*domain.TradeEntry, error) {
	var out []*domain.TradeEntry
	err := s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		var err error
		out, err = tx.ListTrades(ctx)
		return err
	})
	return out, err
}

// StockTransactions returns one ticker's trade history, most recent first.
func (s *Service) StockTransactions(ctx context.Context, ticker string) ([]*domain.TradeEntry, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", domain.ErrInvalidArgument)
	}
	var out []*domain.TradeEntry
	err := s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		var err error
		out, err = tx.ListTradesByTicker(ctx, ticker)
		return err
	})
	return out, err
}

// Holdings returns every holding with its realised delta, by ticker.
func (s *Service) Holdings(ctx context.Context) ([]*domain.HoldingReport, error) {
	var out []*domain.HoldingReport
	err := s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		var err error
		out, err = tx.ListHoldings(ctx)
		return err
	})
	return out, err
}

// PriceHistory returns a year of daily market data for a ticker.
func (s *Service) PriceHistory(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", domain.ErrInvalidArgument)
	}
	return s.Prices.History(ctx, ticker)
}

func (s *Service) aggregate(ctx context.Context, read func(domain.LedgerTx, context.Context) (decimal.Decimal, error)) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.Ledger.Tx(ctx, func(tx domain.LedgerTx) error {
		var err error
		out, err = read(tx, ctx)
		return err
	})
	return out, err
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
