package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display all holdings and portfolio totals" }
func (*holdingsCmd) Usage() string {
	return `stockfolio holdings

  Displays every holding with its valuation, plus the portfolio totals.
`
}
func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (*holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, closer, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closer()

	holdings, err := service.Holdings(ctx)
	if err != nil {
		return fail(err)
	}
	summary, err := service.Summary(ctx)
	if err != nil {
		return fail(err)
	}

	printMarkdown(holdingsMarkdown(holdings) + "\n" + summaryMarkdown(summary))
	return subcommands.ExitSuccess
}

type transactionsCmd struct{}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list transactions, most recent first" }
func (*transactionsCmd) Usage() string {
	return `stockfolio transactions [<ticker>]

  Lists all transactions, or only those for the given ticker.
`
}
func (*transactionsCmd) SetFlags(*flag.FlagSet) {}

func (*transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, closer, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closer()

	trades, err := service.Transactions(ctx)
	if f.NArg() > 0 {
		trades, err = service.StockTransactions(ctx, f.Arg(0))
	}
	if err != nil {
		return fail(err)
	}

	printMarkdown(transactionsMarkdown(trades))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio totals" }
func (*summaryCmd) Usage() string {
	return `stockfolio summary

  Displays portfolio value, cash balance and realised/unrealised deltas.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, closer, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closer()

	summary, err := service.Summary(ctx)
	if err != nil {
		return fail(err)
	}

	printMarkdown(summaryMarkdown(summary))
	return subcommands.ExitSuccess
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display a year of daily prices for a ticker" }
func (*historyCmd) Usage() string {
	return `stockfolio history <ticker>

  Displays daily close prices and trading volume for the past year.
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("expected exactly one ticker argument")
		return subcommands.ExitUsageError
	}

	service, closer, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closer()

	points, err := service.PriceHistory(ctx, f.Arg(0))
	if err != nil {
		return fail(err)
	}

	printMarkdown(historyMarkdown(f.Arg(0), points))
	return subcommands.ExitSuccess
}
