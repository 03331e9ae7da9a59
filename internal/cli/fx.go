package cli

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/subcommands"
)

type fxCmd struct {
	env *Env
}

func (*fxCmd) Name() string             { return "fx" }
func (*fxCmd) Synopsis() string         { return "print the currency table" }
func (*fxCmd) Usage() string            { return "ledgerctl fx\n" }
func (*fxCmd) SetFlags(_ *flag.FlagSet) {}

func (c *fxCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	table := l.Currency.Table()

	codes := make([]string, 0, len(table.RatesToBase))
	for code := range table.RatesToBase {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	w := c.env.table()
	fmt.Fprintf(w, "CURRENCY\tRATE TO %s\n", table.Base)
	for _, code := range codes {
		fmt.Fprintf(w, "%s\t%s\n", code, strconv.FormatFloat(table.RatesToBase[code], 'f', -1, 64))
	}
	if table.UpdatedAt != nil {
		fmt.Fprintf(w, "updated\t%s\n", table.UpdatedAt.Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "updated\tnever (built-in rates)")
	}
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}

type fxSetCmd struct {
	env *Env
}

func (*fxSetCmd) Name() string     { return "fx-set" }
func (*fxSetCmd) Synopsis() string { return "set one exchange rate by hand" }
func (*fxSetCmd) Usage() string {
	return `ledgerctl fx-set <code> <rate>

  Sets how many ILS one unit of <code> is worth. Existing entries keep the
  ILS value they were saved with.
`
}
func (*fxSetCmd) SetFlags(_ *flag.FlagSet) {}

func (c *fxSetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.env.usage("fx-set needs a currency code and a rate")
	}
	rate, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		return c.env.usage(fmt.Sprintf("invalid rate %q", f.Arg(1)))
	}
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	if err := l.Currency.SetRate(ctx, f.Arg(0), rate); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}

type fxCheckCmd struct {
	env   *Env
	apply bool
}

func (*fxCheckCmd) Name() string     { return "fx-check" }
func (*fxCheckCmd) Synopsis() string { return "compare the table with the online rate source" }
func (*fxCheckCmd) Usage() string {
	return `ledgerctl fx-check [-apply]

  Lists the rates that moved by 0.3% or more. Nothing changes unless
  -apply is given.
`
}

func (c *fxCheckCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.apply, "apply", false, "Write the proposed rates into the table.")
}

func (c *fxCheckCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	result := l.Currency.CheckRates(ctx)
	if result.Err != nil {
		return c.env.fail(fmt.Errorf("rate check failed: %w", result.Err))
	}
	if len(result.Changes) == 0 {
		fmt.Fprintln(c.env.Out, "rates are up to date")
		return subcommands.ExitSuccess
	}

	w := c.env.table()
	fmt.Fprintln(w, "CURRENCY\tCURRENT\tPROPOSED")
	for _, ch := range result.Changes {
		current := "-"
		if ch.Old != nil {
			current = strconv.FormatFloat(*ch.Old, 'f', 6, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ch.Code, current, strconv.FormatFloat(ch.New, 'f', 6, 64))
	}
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}

	if !c.apply {
		return subcommands.ExitSuccess
	}
	if err := l.Currency.ApplyReconciliation(ctx, result.Changes); err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "applied %d rates\n", len(result.Changes))
	return subcommands.ExitSuccess
}

type fxRestoreCmd struct {
	env *Env
}

func (*fxRestoreCmd) Name() string             { return "fx-restore" }
func (*fxRestoreCmd) Synopsis() string         { return "reset the currency table to the built-in rates" }
func (*fxRestoreCmd) Usage() string            { return "ledgerctl fx-restore\n" }
func (*fxRestoreCmd) SetFlags(_ *flag.FlagSet) {}

func (c *fxRestoreCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	if err := l.Settings.RestoreDefaults(ctx); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}
