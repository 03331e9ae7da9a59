package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	env    *Env
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the whole ledger as a JSON snapshot" }
func (*exportCmd) Usage() string    { return "ledgerctl export [-o <file>]\n" }

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout when empty.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	snap, err := l.Snapshot.Export(ctx)
	if err != nil {
		return c.env.fail(err)
	}

	return c.env.writeTo(c.output, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	})
}

type importCmd struct {
	env *Env
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge a JSON snapshot into the ledger" }
func (*importCmd) Usage() string {
	return `ledgerctl import <file>

  Entries are upserted by id, entries that are not in the file are kept.
  The currency table and last sync time are replaced when the file has them.
`
}
func (*importCmd) SetFlags(_ *flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.env.usage("import needs exactly one file")
	}
	raw, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return c.env.fail(err)
	}
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	result, err := l.Snapshot.Import(ctx, raw)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "imported %d entries, skipped %d\n", result.Imported, result.Skipped)
	if result.FXReplaced {
		fmt.Fprintln(c.env.Out, "currency table replaced")
	}
	return subcommands.ExitSuccess
}

type workbookCmd struct {
	env    *Env
	output string
}

func (*workbookCmd) Name() string     { return "workbook" }
func (*workbookCmd) Synopsis() string { return "write entries and rates as an xlsx workbook" }
func (*workbookCmd) Usage() string    { return "ledgerctl workbook -o <file.xlsx>\n" }

func (c *workbookCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "travel_ledger.xlsx", "Output file.")
}

func (c *workbookCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.env.Ledger(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	return c.env.writeTo(c.output, func(w io.Writer) error {
		return l.Snapshot.ExportWorkbook(ctx, w)
	})
}

// writeTo runs write against the named file, or Out when name is empty.
func (e *Env) writeTo(name string, write func(io.Writer) error) subcommands.ExitStatus {
	if name == "" {
		if err := write(e.Out); err != nil {
			return e.fail(err)
		}
		return subcommands.ExitSuccess
	}

	file, err := os.Create(name)
	if err != nil {
		return e.fail(err)
	}
	if err := write(file); err != nil {
		file.Close()
		return e.fail(err)
	}
	if err := file.Close(); err != nil {
		return e.fail(err)
	}
	return subcommands.ExitSuccess
}
