package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/domain"
)

const dateLayout = "2006-01-02"

// ledgerTx implements domain.LedgerTx on one database transaction.
// Every statement binds parameters in first-occurrence order so the $n
// placeholders behave identically under lib/pq and modernc/sqlite.
type ledgerTx struct {
	tx     *sql.Tx
	driver string
}

func (t *ledgerTx) CashBalance(ctx context.Context) (decimal.Decimal, error) {
	return t.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM cash_entries`)
}

func (t *ledgerTx) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	return t.sum(ctx, `SELECT COALESCE(SUM(current_value), 0) FROM holdings`)
}

func (t *ledgerTx) UnrealisedDelta(ctx context.Context) (decimal.Decimal, error) {
	return t.sum(ctx, `SELECT COALESCE(SUM(current_value - cost_basis), 0) FROM holdings`)
}

func (t *ledgerTx) RealisedDelta(ctx context.Context) (decimal.Decimal, error) {
	return t.sum(ctx, `SELECT COALESCE(SUM(delta), 0) FROM realised_gains`)
}

func (t *ledgerTx) sum(ctx context.Context, query string) (decimal.Decimal, error) {
	var total sql.NullFloat64
	if err := t.tx.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, persistErr("aggregate", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	// Ledger amounts are 2dp; rounding strips float noise from SUM.
	return decimal.NewFromFloat(total.Float64).Round(2), nil
}

func (t *ledgerTx) InsertCashEntry(ctx context.Context, entry *domain.CashEntry) error {
	query := `
		INSERT INTO cash_entries (id, amount, kind, entry_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := t.tx.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Amount.String(),
		string(entry.Kind),
		entry.Date.Format(dateLayout),
	)
	if err != nil {
		return persistErr("insert cash entry", err)
	}
	return nil
}

func (t *ledgerTx) InsertTradeEntry(ctx context.Context, entry *domain.TradeEntry) error {
	query := `
		INSERT INTO trade_entries (id, ticker, price, quantity, kind, cash_impact, trade_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Ticker,
		entry.Price.String(),
		entry.Quantity.String(),
		string(entry.Kind),
		entry.CashImpact.String(),
		entry.Date.Format(dateLayout),
	)
	if err != nil {
		return persistErr("insert trade entry", err)
	}
	return nil
}

func (t *ledgerTx) InsertRealisedGain(ctx context.Context, gain *domain.RealisedGain) error {
	query := `
		INSERT INTO realised_gains (trade_id, ticker, delta, gain_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := t.tx.ExecContext(ctx, query,
		gain.TradeID.String(),
		gain.Ticker,
		gain.Delta.String(),
		gain.Date.Format(dateLayout),
	)
	if err != nil {
		return persistErr("insert realised gain", err)
	}
	return nil
}

func (t *ledgerTx) HoldingForUpdate(ctx context.Context, ticker string) (*domain.Holding, error) {
	query := `
		SELECT ticker, quantity, average_cost, last_price, cost_basis, current_value
		FROM holdings
		WHERE ticker = $1
	`
	if t.driver == DriverPostgres {
		// SQLite locks the whole database for the writing transaction, so
		// the row lock is only needed on Postgres.
		query += ` FOR UPDATE`
	}

	var (
		holding domain.Holding
		cols    [5]string
	)
	err := t.tx.QueryRowContext(ctx, query, ticker).Scan(
		&holding.Ticker, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("get holding", err)
	}

	fields := []*decimal.Decimal{
		&holding.Quantity, &holding.AverageCost, &holding.LastPrice,
		&holding.CostBasis, &holding.CurrentValue,
	}
	for i, raw := range cols {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, persistErr("parse holding", err)
		}
		*fields[i] = value
	}
	return &holding, nil
}

func (t *ledgerTx) SaveHolding(ctx context.Context, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (ticker, quantity, average_cost, last_price, cost_basis, current_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker) DO UPDATE SET
			quantity = excluded.quantity,
			average_cost = excluded.average_cost,
			last_price = excluded.last_price,
			cost_basis = excluded.cost_basis,
			current_value = excluded.current_value
	`
	_, err := t.tx.ExecContext(ctx, query,
		holding.Ticker,
		holding.Quantity.String(),
		holding.AverageCost.String(),
		holding.LastPrice.String(),
		holding.CostBasis.String(),
		holding.CurrentValue.String(),
	)
	if err != nil {
		return persistErr("save holding", err)
	}
	return nil
}

func (t *ledgerTx) ListTrades(ctx context.Context) ([]*domain.TradeEntry, error) {
	query := `
		SELECT id, ticker, price, quantity, kind, cash_impact, trade_date
		FROM trade_entries
		ORDER BY trade_date DESC
	`
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, persistErr("list trades", err)
	}
	return scanTrades(rows)
}

func (t *ledgerTx) ListTradesByTicker(ctx context.Context, ticker string) ([]*domain.TradeEntry, error) {
	query := `
		SELECT id, ticker, price, quantity, kind, cash_impact, trade_date
		FROM trade_entries
		WHERE ticker = $1
		ORDER BY trade_date DESC
	`
	rows, err := t.tx.QueryContext(ctx, query, ticker)
	if err != nil {
		return nil, persistErr("list trades by ticker", err)
	}
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]*domain.TradeEntry, error) {
	defer rows.Close()

	var out []*domain.TradeEntry
	for rows.Next() {
		var (
			entry                            domain.TradeEntry
			id, price, qty, impact, tradeDay string
			kind                             string
		)
		if err := rows.Scan(&id, &entry.Ticker, &price, &qty, &kind, &impact, &tradeDay); err != nil {
			return nil, persistErr("scan trade", err)
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, persistErr("parse trade id", err)
		}
		entry.ID = parsedID
		entry.Kind = domain.TradeKind(kind)

		if entry.Price, err = decimal.NewFromString(price); err != nil {
			return nil, persistErr("parse trade price", err)
		}
		if entry.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, persistErr("parse trade quantity", err)
		}
		if entry.CashImpact, err = decimal.NewFromString(impact); err != nil {
			return nil, persistErr("parse trade cash impact", err)
		}
		if entry.Date, err = time.Parse(dateLayout, tradeDay); err != nil {
			return nil, persistErr("parse trade date", err)
		}
		out = append(out, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate trades", err)
	}
	return out, nil
}

func (t *ledgerTx) ListHoldings(ctx context.Context) ([]*domain.HoldingReport, error) {
	query := `
		SELECT
			h.ticker, h.quantity, h.average_cost, h.last_price, h.cost_basis, h.current_value,
			COALESCE(SUM(g.delta), 0) AS realised_delta
		FROM holdings h
		LEFT JOIN realised_gains g ON g.ticker = h.ticker
		GROUP BY h.ticker, h.quantity, h.average_cost, h.last_price, h.cost_basis, h.current_value
		ORDER BY h.ticker ASC
	`
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, persistErr("list holdings", err)
	}
	defer rows.Close()

	var out []*domain.HoldingReport
	for rows.Next() {
		var (
			report   domain.HoldingReport
			cols     [5]string
			realised sql.NullFloat64
		)
		if err := rows.Scan(&report.Ticker, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &realised); err != nil {
			return nil, persistErr("scan holding", err)
		}

		fields := []*decimal.Decimal{
			&report.Quantity, &report.AverageCost, &report.LastPrice,
			&report.CostBasis, &report.CurrentValue,
		}
		for i, raw := range cols {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, persistErr("parse holding", err)
			}
			*fields[i] = value
		}
		report.RealisedDelta = decimal.Zero
		if realised.Valid {
			report.RealisedDelta = decimal.NewFromFloat(realised.Float64).Round(2)
		}
		out = append(out, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate holdings", err)
	}
	return out, nil
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}
