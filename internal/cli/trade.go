package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/avendall/stockfolio/internal/domain"
	"github.com/avendall/stockfolio/internal/usecase/portfolio"
)

type buyCmd struct {
	date  string
	price string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares of a stock" }
func (*buyCmd) Usage() string {
	return `stockfolio buy [-d <date>] [-p <price>] <ticker> <shares>

  Buys shares of a stock. The price defaults to the market price for the
  trade date; pass -p to record a manual price.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.price, "p", "", "Manual price per share. Defaults to the market price.")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTrade(ctx, f, domain.TradeBuy, c.date, c.price)
}

type sellCmd struct {
	date  string
	price string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of a stock" }
func (*sellCmd) Usage() string {
	return `stockfolio sell [-d <date>] [-p <price>] <ticker> <shares>

  Sells shares of a stock you hold.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.price, "p", "", "Manual price per share. Defaults to the market price.")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTrade(ctx, f, domain.TradeSell, c.date, c.price)
}

func runTrade(ctx context.Context, f *flag.FlagSet, kind domain.TradeKind, date, price string) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println("expected ticker and share count arguments")
		return subcommands.ExitUsageError
	}
	quantity, err := parseAmount(f.Arg(1))
	if err != nil {
		return fail(err)
	}

	input := portfolio.TradeInput{
		Ticker:   f.Arg(0),
		Quantity: quantity,
		Kind:     kind,
		Date:     date,
	}
	if price != "" {
		manual, err := parseAmount(price)
		if err != nil {
			return fail(err)
		}
		input.Price = &manual
	}

	service, closer, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closer()

	entry, err := service.RecordTrade(ctx, input)
	if err != nil {
		return fail(err)
	}

	verb := "Bought"
	if kind == domain.TradeSell {
		verb = "Sold"
	}
	fmt.Printf("%s %s shares of %s at $%s per share\n",
		verb, entry.Quantity.String(), entry.Ticker, entry.Price.StringFixed(2))
	return subcommands.ExitSuccess
}
