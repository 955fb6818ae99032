package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendall/stockfolio/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func inTx(t *testing.T, store *Store, fn func(tx domain.LedgerTx) error) {
	t.Helper()
	require.NoError(t, store.Tx(context.Background(), fn))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql", DSN: ""}, zerolog.Nop())
	assert.Error(t, err)
}

func TestCashBalance_SumsSignedEntries(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	inTx(t, store, func(tx domain.LedgerTx) error {
		if err := tx.InsertCashEntry(ctx, &domain.CashEntry{
			ID: uuid.New(), Amount: dec("250.50"), Kind: domain.CashDeposit, Date: day("2024-01-02"),
		}); err != nil {
			return err
		}
		return tx.InsertCashEntry(ctx, &domain.CashEntry{
			ID: uuid.New(), Amount: dec("-100.00"), Kind: domain.CashWithdraw, Date: day("2024-01-03"),
		})
	})

	inTx(t, store, func(tx domain.LedgerTx) error {
		balance, err := tx.CashBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, "150.50", balance.StringFixed(2))
		return nil
	})
}

func TestAggregates_EmptyLedger(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	inTx(t, store, func(tx domain.LedgerTx) error {
		for name, read := range map[string]func(context.Context) (decimal.Decimal, error){
			"cash balance":     tx.CashBalance,
			"total value":      tx.TotalValue,
			"unrealised delta": tx.UnrealisedDelta,
			"realised delta":   tx.RealisedDelta,
		} {
			value, err := read(ctx)
			require.NoError(t, err, name)
			assert.True(t, value.IsZero(), name)
		}
		return nil
	})
}

func TestSaveHolding_Upsert(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	inTx(t, store, func(tx domain.LedgerTx) error {
		return tx.SaveHolding(ctx, &domain.Holding{
			Ticker:       "AAPL",
			Quantity:     dec("10"),
			AverageCost:  dec("100.00"),
			LastPrice:    dec("110.00"),
			CostBasis:    dec("1000.00"),
			CurrentValue: dec("1100.00"),
		})
	})

	// Saving the same ticker again replaces the row in place.
	inTx(t, store, func(tx domain.LedgerTx) error {
		holding, err := tx.HoldingForUpdate(ctx, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, holding)

		holding.Quantity = dec("20")
		holding.AverageCost = dec("150.00")
		holding.CostBasis = dec("3000.00")
		return tx.SaveHolding(ctx, holding)
	})

	inTx(t, store, func(tx domain.LedgerTx) error {
		reports, err := tx.ListHoldings(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "AAPL", reports[0].Ticker)
		assert.Equal(t, "20", reports[0].Quantity.String())
		assert.Equal(t, "150.00", reports[0].AverageCost.StringFixed(2))
		assert.Equal(t, "3000.00", reports[0].CostBasis.StringFixed(2))
		return nil
	})
}

func TestHoldingForUpdate_Missing(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	inTx(t, store, func(tx domain.LedgerTx) error {
		holding, err := tx.HoldingForUpdate(ctx, "MSFT")
		require.NoError(t, err)
		assert.Nil(t, holding)
		return nil
	})
}

func TestListTrades_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	trades := []*domain.TradeEntry{
		{ID: uuid.New(), Ticker: "AAPL", Price: dec("100.00"), Quantity: dec("1"), Kind: domain.TradeBuy, CashImpact: dec("-100.00"), Date: day("2024-01-02")},
		{ID: uuid.New(), Ticker: "MSFT", Price: dec("400.00"), Quantity: dec("2"), Kind: domain.TradeBuy, CashImpact: dec("-800.00"), Date: day("2024-03-04")},
		{ID: uuid.New(), Ticker: "AAPL", Price: dec("120.00"), Quantity: dec("1"), Kind: domain.TradeSell, CashImpact: dec("120.00"), Date: day("2024-02-03")},
	}
	inTx(t, store, func(tx domain.LedgerTx) error {
		for _, trade := range trades {
			if err := tx.InsertTradeEntry(ctx, trade); err != nil {
				return err
			}
		}
		return nil
	})

	inTx(t, store, func(tx domain.LedgerTx) error {
		all, err := tx.ListTrades(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "2024-03-04", all[0].Date.Format(dateLayout))
		assert.Equal(t, "2024-02-03", all[1].Date.Format(dateLayout))
		assert.Equal(t, "2024-01-02", all[2].Date.Format(dateLayout))
		assert.Equal(t, trades[1].ID, all[0].ID)
		assert.Equal(t, "-800.00", all[0].CashImpact.StringFixed(2))

		aapl, err := tx.ListTradesByTicker(ctx, "AAPL")
		require.NoError(t, err)
		require.Len(t, aapl, 2)
		assert.Equal(t, domain.TradeSell, aapl[0].Kind)
		assert.Equal(t, domain.TradeBuy, aapl[1].Kind)
		return nil
	})
}

func TestListHoldings_JoinsRealisedGains(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	inTx(t, store, func(tx domain.LedgerTx) error {
		for _, h := range []*domain.Holding{
			{Ticker: "MSFT", Quantity: dec("2"), AverageCost: dec("400.00"), LastPrice: dec("410.00"), CostBasis: dec("800.00"), CurrentValue: dec("820.00")},
			{Ticker: "AAPL", Quantity: dec("5"), AverageCost: dec("100.00"), LastPrice: dec("120.00"), CostBasis: dec("500.00"), CurrentValue: dec("600.00")},
		} {
			if err := tx.SaveHolding(ctx, h); err != nil {
				return err
			}
		}
		for _, g := range []*domain.RealisedGain{
			{TradeID: uuid.New(), Ticker: "AAPL", Delta: dec("100.00"), Date: day("2024-02-03")},
			{TradeID: uuid.New(), Ticker: "AAPL", Delta: dec("-25.00"), Date: day("2024-02-04")},
		} {
			if err := tx.InsertRealisedGain(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})

	inTx(t, store, func(tx domain.LedgerTx) error {
		reports, err := tx.ListHoldings(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 2)

		// Ordered by ticker.
		assert.Equal(t, "AAPL", reports[0].Ticker)
		assert.Equal(t, "75.00", reports[0].RealisedDelta.StringFixed(2))
		assert.Equal(t, "100.00", reports[0].UnrealisedDelta().StringFixed(2))

		assert.Equal(t, "MSFT", reports[1].Ticker)
		assert.Equal(t, "0.00", reports[1].RealisedDelta.StringFixed(2))
		return nil
	})
}

func TestTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	boom := errors.New("boom")
	err := store.Tx(ctx, func(tx domain.LedgerTx) error {
		if err := tx.InsertCashEntry(ctx, &domain.CashEntry{
			ID: uuid.New(), Amount: dec("500.00"), Kind: domain.CashDeposit, Date: day("2024-01-02"),
		}); err != nil {
			return err
		}
		if err := tx.SaveHolding(ctx, &domain.Holding{
			Ticker: "AAPL", Quantity: dec("1"), AverageCost: dec("100.00"),
			LastPrice: dec("100.00"), CostBasis: dec("100.00"), CurrentValue: dec("100.00"),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Neither write survived the failed unit of work.
	inTx(t, store, func(tx domain.LedgerTx) error {
		balance, err := tx.CashBalance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())

		reports, err := tx.ListHoldings(ctx)
		require.NoError(t, err)
		assert.Empty(t, reports)
		return nil
	})
}

func TestFractionalQuantitiesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	inTx(t, store, func(tx domain.LedgerTx) error {
		return tx.SaveHolding(ctx, &domain.Holding{
			Ticker:       "AAPL",
			Quantity:     dec("0.5"),
			AverageCost:  dec("100.00"),
			LastPrice:    dec("100.00"),
			CostBasis:    dec("50.00"),
			CurrentValue: dec("50.00"),
		})
	})

	inTx(t, store, func(tx domain.LedgerTx) error {
		holding, err := tx.HoldingForUpdate(ctx, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, holding)
		assert.Equal(t, "0.5", holding.Quantity.String())
		return nil
	})
}
