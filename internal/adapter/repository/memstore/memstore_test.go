package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendall/stockfolio/internal/domain"
)

func TestTx_CommitOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Tx(ctx, func(tx domain.LedgerTx) error {
		return tx.InsertCashEntry(ctx, &domain.CashEntry{
			ID:     uuid.New(),
			Amount: decimal.RequireFromString("100"),
			Kind:   domain.CashDeposit,
		})
	})
	require.NoError(t, err)

	err = store.Tx(ctx, func(tx domain.LedgerTx) error {
		balance, err := tx.CashBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, "100.00", balance.StringFixed(2))
		return nil
	})
	require.NoError(t, err)
}

func TestTx_DiscardOnError(t *testing.T) {
	ctx := context.Background()
	store := New()

	boom := errors.New("boom")
	err := store.Tx(ctx, func(tx domain.LedgerTx) error {
		if err := tx.InsertCashEntry(ctx, &domain.CashEntry{
			ID:     uuid.New(),
			Amount: decimal.RequireFromString("100"),
			Kind:   domain.CashDeposit,
		}); err != nil {
			return err
		}
		if err := tx.SaveHolding(ctx, &domain.Holding{Ticker: "AAPL", Quantity: decimal.NewFromInt(1)}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.Tx(ctx, func(tx domain.LedgerTx) error {
		balance, err := tx.CashBalance(ctx)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())

		holding, err := tx.HoldingForUpdate(ctx, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, holding)
		return nil
	})
	require.NoError(t, err)
}
