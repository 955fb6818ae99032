// Package cli implements the command-line application for the portfolio.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/adapter/pricing"
	"github.com/avendall/stockfolio/internal/adapter/repository/memstore"
	"github.com/avendall/stockfolio/internal/adapter/repository/sqlstore"
	"github.com/avendall/stockfolio/internal/config"
	"github.com/avendall/stockfolio/internal/domain"
	"github.com/avendall/stockfolio/internal/usecase/portfolio"
	"github.com/avendall/stockfolio/pkg/logger"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&depositCmd{}, "cash")
	c.Register(&withdrawCmd{}, "cash")

	c.Register(&buyCmd{}, "trades")
	c.Register(&sellCmd{}, "trades")

	c.Register(&holdingsCmd{}, "reports")
	c.Register(&transactionsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
}

// openService builds the engine from configuration. The returned closer
// releases the store and must be called on every exit path.
func openService() (*portfolio.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})

	var (
		ledger domain.Ledger
		closer = func() {}
	)
	switch cfg.DBDriver {
	case "memory":
		ledger = memstore.New()
	default:
		store, err := sqlstore.Open(sqlstore.Config{Driver: cfg.DBDriver, DSN: cfg.DBConnStr}, log)
		if err != nil {
			return nil, nil, err
		}
		ledger = store
		closer = func() { store.Close() }
	}

	var prices domain.PriceSource = pricing.NewYahooSource(log)
	if cfg.PriceSource == "static" {
		prices = pricing.NewStaticSource(nil)
	}

	return portfolio.NewService(ledger, prices, log), closer, nil
}

// printMarkdown renders a markdown report for the terminal, falling back
// to the raw markdown when the renderer cannot be built.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
