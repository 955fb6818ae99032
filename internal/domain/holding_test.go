package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHolding_UnrealisedDelta(t *testing.T) {
	h := &Holding{
		CostBasis:    decimal.RequireFromString("1000"),
		CurrentValue: decimal.RequireFromString("1150.50"),
	}
	assert.Equal(t, "150.50", h.UnrealisedDelta().StringFixed(2))

	h.CurrentValue = decimal.RequireFromString("900")
	assert.Equal(t, "-100.00", h.UnrealisedDelta().StringFixed(2))
}

func TestCashKind_Valid(t *testing.T) {
	for _, kind := range []CashKind{CashDeposit, CashWithdraw, CashBuy, CashSell} {
		assert.True(t, kind.Valid(), string(kind))
	}
	assert.False(t, CashKind("REFUND").Valid())
}

func TestTradeKind_Valid(t *testing.T) {
	assert.True(t, TradeBuy.Valid())
	assert.True(t, TradeSell.Valid())
	assert.False(t, TradeKind("HOLD").Valid())
}
