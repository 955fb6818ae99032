package cli

import (
	"fmt"
	"strings"

	"github.com/avendall/stockfolio/internal/domain"
	"github.com/avendall/stockfolio/internal/usecase/portfolio"
)

func holdingsMarkdown(holdings []*domain.HoldingReport) string {
	if len(holdings) == 0 {
		return "No holdings yet.\n"
	}

	var b strings.Builder
	b.WriteString("# Your Portfolio\n\n")
	b.WriteString("| Ticker | Shares | Avg Cost | Last Price | Cost Basis | Value | Unrealised | Realised |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			h.Ticker,
			h.Quantity.String(),
			h.AverageCost.StringFixed(2),
			h.LastPrice.StringFixed(2),
			h.CostBasis.StringFixed(2),
			h.CurrentValue.StringFixed(2),
			h.UnrealisedDelta().StringFixed(2),
			h.RealisedDelta.StringFixed(2),
		)
	}
	return b.String()
}

func transactionsMarkdown(trades []*domain.TradeEntry) string {
	if len(trades) == 0 {
		return "No transactions yet.\n"
	}

	var b strings.Builder
	b.WriteString("# Your Transactions\n\n")
	b.WriteString("| Date | Type | Ticker | Price | Shares |\n")
	b.WriteString("|---|---|---|---:|---:|\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			t.Date.Format(portfolio.DateLayout),
			t.Kind,
			t.Ticker,
			t.Price.StringFixed(2),
			t.Quantity.String(),
		)
	}
	return b.String()
}

func summaryMarkdown(s *portfolio.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio value: $%s\n\n", s.TotalValue.StringFixed(2))
	fmt.Fprintf(&b, "Cash balance: $%s\n\n", s.CashBalance.StringFixed(2))
	fmt.Fprintf(&b, "Unrealised delta: $%s\n\n", s.UnrealisedDelta.StringFixed(2))
	fmt.Fprintf(&b, "Realised delta: $%s\n", s.RealisedDelta.StringFixed(2))
	return b.String()
}

func historyMarkdown(ticker string, points []domain.PricePoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Past Year\n\n", strings.ToUpper(ticker))
	b.WriteString("| Date | Close | Volume |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %s | %d |\n",
			p.Date.Format(portfolio.DateLayout),
			p.Close.StringFixed(2),
			p.Volume,
		)
	}
	return b.String()
}
