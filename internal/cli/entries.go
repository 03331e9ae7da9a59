package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/travel-ledger/internal/domain/catalog"
	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/service"
)

type recentCmd struct {
	env             *Env
	limit           int
	hideWithdrawals bool
}

func (*recentCmd) Name() string     { return "recent" }
func (*recentCmd) Synopsis() string { return "list the most recently created entries" }
func (*recentCmd) Usage() string {
	return `ledgerctl recent [-n <count>] [-no-withdrawals]

  Lists entries newest first, cash withdrawals included.
`
}

func (c *recentCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "Maximum number of entries to list.")
	f.BoolVar(&c.hideWithdrawals, "no-withdrawals", false, "Leave cash withdrawals out.")
}

func (c *recentCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	entries, err := l.Entries.ListRecent(ctx, c.limit, !c.hideWithdrawals)
	if err != nil {
		return c.env.fail(err)
	}

	w := c.env.table()
	fmt.Fprintln(w, "DATE\tCATEGORY\tAMOUNT\tILS\tDESCRIPTION\tID")
	for _, e := range entries {
		amount := formatMoney(e.AmountOriginal, e.Currency)
		if e.IsRefund {
			amount = "-" + amount
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", describeDate(e), e.CategoryID, amount, formatBase(e.AmountILS), e.Description, e.EntryID)
	}
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}

func describeDate(e *entry.Entry) string {
	if e.Span == nil {
		return e.Date.String()
	}
	if end, ok := e.Span.EffectiveEnd(e.Date); ok && end != e.Date {
		return e.Date.String() + ".." + end.String()
	}
	return e.Date.String()
}

// entryFlags are the fields add and withdraw share.
type entryFlags struct {
	date     string
	amount   float64
	currency string
	desc     string
	country  string
	place    string
	notes    string
}

func (p *entryFlags) register(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Date of the entry (YYYY-MM-DD), defaults to today.")
	f.Float64Var(&p.amount, "amount", 0, "Amount in the entry currency.")
	f.StringVar(&p.currency, "c", fx.Base, "Currency code of the amount.")
	f.StringVar(&p.desc, "desc", "", "Short description.")
	f.StringVar(&p.country, "country", "", "Country.")
	f.StringVar(&p.place, "place", "", "Place name.")
	f.StringVar(&p.notes, "notes", "", "Free text notes.")
}

func (p *entryFlags) request(categoryID string) (*service.SaveEntryRequest, error) {
	day := date.Today()
	if p.date != "" {
		var err error
		if day, err = date.Parse(p.date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", p.date, err)
		}
	}
	return &service.SaveEntryRequest{
		Date:           day,
		CategoryID:     categoryID,
		Description:    p.desc,
		Country:        p.country,
		PlaceName:      p.place,
		Notes:          p.notes,
		AmountOriginal: p.amount,
		Currency:       p.currency,
	}, nil
}

type addCmd struct {
	env *Env
	entryFlags
	category string
	method   string
	refund   bool
	days     int
	end      string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an expense or refund" }
func (*addCmd) Usage() string {
	return `ledgerctl add -category <id> -amount <value> [-c <currency>] [-d <date>] [-days <n> | -end <date>] [-refund]

  Records an expense. Its ILS value is computed from the current currency
  table. -days or -end spread the amount evenly over several days.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.entryFlags.register(f)
	f.StringVar(&c.category, "category", "", "Category id, see the catalog.")
	f.StringVar(&c.method, "method", "", "Payment method id.")
	f.BoolVar(&c.refund, "refund", false, "The amount was received back.")
	f.IntVar(&c.days, "days", 0, "Number of days the entry covers.")
	f.StringVar(&c.end, "end", "", "Last day the entry covers (YYYY-MM-DD).")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" {
		return c.env.usage("-category is required")
	}
	if catalog.IsWithdrawal(c.category) {
		return c.env.usage("use the withdraw command for cash withdrawals")
	}
	req, err := c.request(c.category)
	if err != nil {
		return c.env.usage(err.Error())
	}
	req.PaymentMethodID = c.method
	req.IsRefund = c.refund
	if c.days > 0 {
		req.IsMultiday = true
		req.Duration = &c.days
	}
	if c.end != "" {
		end, err := date.Parse(c.end)
		if err != nil {
			return c.env.usage(fmt.Sprintf("invalid end date %q", c.end))
		}
		req.IsMultiday = true
		req.EndDate = &end
	}

	return c.env.save(ctx, req)
}

type withdrawCmd struct {
	env *Env
	entryFlags
	source       string
	wallet       string
	cash         float64
	cashCurrency string
	fee          float64
	feeCurrency  string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record a cash withdrawal" }
func (*withdrawCmd) Usage() string {
	return `ledgerctl withdraw -amount <charged> [-c <currency>] -cash <received> -cash-currency <code> [-fee <value> -fee-currency <code>]

  Records a withdrawal. The charged amount moves money between accounts and
  is not spending; only the fee counts towards daily totals.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	c.entryFlags.register(f)
	f.StringVar(&c.source, "source", "", "Payment method the cash was drawn from.")
	f.StringVar(&c.wallet, "wallet", "", "Cash wallet id, derived from -cash-currency when empty.")
	f.Float64Var(&c.cash, "cash", 0, "Cash received.")
	f.StringVar(&c.cashCurrency, "cash-currency", "", "Currency of the cash received.")
	f.Float64Var(&c.fee, "fee", 0, "Fee charged for the withdrawal.")
	f.StringVar(&c.feeCurrency, "fee-currency", "", "Currency of the fee, defaults to -c.")
}

func (c *withdrawCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cashCurrency == "" {
		return c.env.usage("-cash-currency is required")
	}
	req, err := c.request(catalog.WithdrawalCategoryID)
	if err != nil {
		return c.env.usage(err.Error())
	}
	req.WithdrawalSourceMethodID = c.source
	req.WithdrawalCashWalletID = c.wallet
	req.CashAmount = c.cash
	req.CashCurrency = c.cashCurrency
	req.FeeAmount = c.fee
	req.FeeCurrency = c.feeCurrency
	if req.FeeCurrency == "" {
		req.FeeCurrency = req.Currency
	}

	return c.env.save(ctx, req)
}

func (e *Env) save(ctx context.Context, req *service.SaveEntryRequest) subcommands.ExitStatus {
	l, err := e.Ledger(ctx)
	if err != nil {
		return e.fail(err)
	}
	saved, err := l.Entries.Save(ctx, req)
	if err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(e.Out, "%s %s %s (%s)\n", saved.EntryID, describeDate(saved), formatMoney(saved.AmountOriginal, saved.Currency), formatBase(saved.AmountILS))
	return subcommands.ExitSuccess
}

type rmCmd struct {
	env *Env
}

func (*rmCmd) Name() string             { return "rm" }
func (*rmCmd) Synopsis() string         { return "delete entries by id" }
func (*rmCmd) Usage() string            { return "ledgerctl rm <entry-id>...\n" }
func (*rmCmd) SetFlags(_ *flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.env.usage("at least one entry id is required")
	}
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	for _, id := range f.Args() {
		if err := l.Entries.Delete(ctx, id); err != nil {
			return c.env.fail(err)
		}
	}
	return subcommands.ExitSuccess
}
