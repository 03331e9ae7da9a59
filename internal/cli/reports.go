package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/travel-ledger/internal/aggregate"
	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/fx"
)

type dayCmd struct {
	env *Env
}

func (*dayCmd) Name() string     { return "day" }
func (*dayCmd) Synopsis() string { return "show the amount spent on one day" }
func (*dayCmd) Usage() string {
	return `ledgerctl day [<date>]

  Prints the ILS spent on the given day, today by default. Multi-day
  entries count their daily share, refunds count negative and withdrawals
  only count their fee.
`
}
func (*dayCmd) SetFlags(_ *flag.FlagSet) {}

func (c *dayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := date.Today()
	if f.NArg() > 0 {
		var err error
		if day, err = date.Parse(f.Arg(0)); err != nil {
			return c.env.usage(fmt.Sprintf("invalid date %q", f.Arg(0)))
		}
	}
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	total, err := l.Reports.SpendForDay(ctx, day)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "%s\t%s\n", day, formatMoney(total, fx.Base))
	return subcommands.ExitSuccess
}

type rangeCmd struct {
	env *Env
}

func (*rangeCmd) Name() string     { return "range" }
func (*rangeCmd) Synopsis() string { return "show daily spending over a date range" }
func (*rangeCmd) Usage() string {
	return `ledgerctl range <from> <to>

  Prints one line per day from <from> to <to> inclusive, then the total.
`
}
func (*rangeCmd) SetFlags(_ *flag.FlagSet) {}

func (c *rangeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.env.usage("range needs a start and an end date")
	}
	from, err := date.Parse(f.Arg(0))
	if err != nil {
		return c.env.usage(fmt.Sprintf("invalid date %q", f.Arg(0)))
	}
	to, err := date.Parse(f.Arg(1))
	if err != nil {
		return c.env.usage(fmt.Sprintf("invalid date %q", f.Arg(1)))
	}

	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	days, err := l.Reports.SpendForRange(ctx, from, to)
	if err != nil {
		return c.env.fail(err)
	}

	w := c.env.table()
	var sum float64
	for _, d := range days {
		sum += d.TotalILS
		fmt.Fprintf(w, "%s\t%s\n", d.Date, formatMoney(d.TotalILS, fx.Base))
	}
	fmt.Fprintf(w, "TOTAL\t%s\n", formatMoney(aggregate.Round(sum), fx.Base))
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}
