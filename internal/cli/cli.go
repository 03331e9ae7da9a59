// Package cli implements the ledgerctl subcommands on top of an in-process
// ledger.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/travel-ledger/internal/components"
	"github.com/travel-ledger/internal/domain/fx"
)

// Env is shared by every command of one invocation. The ledger is opened
// on first use so that help output never touches storage.
type Env struct {
	Out io.Writer
	Err io.Writer

	open   func(ctx context.Context) (*components.Ledger, error)
	ledger *components.Ledger
}

// NewEnv returns an Env writing to stdout and stderr.
func NewEnv(open func(ctx context.Context) (*components.Ledger, error)) *Env {
	return &Env{Out: os.Stdout, Err: os.Stderr, open: open}
}

// Ledger opens the ledger once and returns it.
func (e *Env) Ledger(ctx context.Context) (*components.Ledger, error) {
	if e.ledger != nil {
		return e.ledger, nil
	}
	l, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	e.ledger = l
	return l, nil
}

// Close releases the ledger if it was opened.
func (e *Env) Close(ctx context.Context) error {
	if e.ledger == nil {
		return nil
	}
	err := e.ledger.Close(ctx)
	e.ledger = nil
	return err
}

// Commands lists every ledgerctl command bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&recentCmd{env: env},
		&addCmd{env: env},
		&withdrawCmd{env: env},
		&rmCmd{env: env},
		&dayCmd{env: env},
		&rangeCmd{env: env},
		&fxCmd{env: env},
		&fxSetCmd{env: env},
		&fxCheckCmd{env: env},
		&fxRestoreCmd{env: env},
		&exportCmd{env: env},
		&importCmd{env: env},
		&workbookCmd{env: env},
	}
}

// fail prints err and returns the failure status.
func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, err)
	return subcommands.ExitFailure
}

func (e *Env) usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, msg)
	return subcommands.ExitUsageError
}

func (e *Env) table() *tabwriter.Writer {
	return tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
}

// formatMoney renders amount in code using the currency's own symbol and
// minor units. Codes go-money does not know are printed plainly.
func formatMoney(amount float64, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", decimal.NewFromFloat(amount).StringFixed(2), code)
	}
	minor := decimal.NewFromFloat(amount).Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), cur.Code).Display()
}

func formatBase(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return formatMoney(*amount, fx.Base)
}
