package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/avendall/stockfolio/internal/domain"
)

type depositCmd struct{}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into the portfolio balance" }
func (*depositCmd) Usage() string {
	return `stockfolio deposit <amount>

  Deposits cash into your balance, which you can use to buy stocks.
`
}
func (*depositCmd) SetFlags(*flag.FlagSet) {}

func (*depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runCashUpdate(ctx, f, domain.CashDeposit)
}

type withdrawCmd struct{}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from the portfolio balance" }
func (*withdrawCmd) Usage() string {
	return `stockfolio withdraw <amount>

  Withdraws cash from your balance.
`
}
func (*withdrawCmd) SetFlags(*flag.FlagSet) {}

func (*withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runCashUpdate(ctx, f, domain.CashWithdraw)
}

func runCashUpdate(ctx context.Context, f *flag.FlagSet, kind domain.CashKind) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("expected exactly one amount argument")
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(f.Arg(0))
	if err != nil {
		return fail(err)
	}

	service, closer, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closer()

	if err := service.UpdateCash(ctx, amount, kind); err != nil {
		return fail(err)
	}

	if kind == domain.CashDeposit {
		fmt.Printf("Deposited $%s into your portfolio\n", amount.StringFixed(2))
	} else {
		fmt.Printf("Withdrew $%s from your portfolio\n", amount.StringFixed(2))
	}
	return subcommands.ExitSuccess
}
