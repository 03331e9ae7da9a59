package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/travel-ledger/internal/cli"
	"github.com/travel-ledger/internal/components"
	"github.com/travel-ledger/internal/config"
	"github.com/travel-ledger/internal/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	configFile := flag.String("config", "", "Configuration file. Defaults to the server's ledger_api.env lookup.")

	env := cli.NewEnv(func(ctx context.Context) (*components.Ledger, error) {
		cfg, err := loadConfig(*configFile)
		if err != nil {
			return nil, err
		}
		return components.NewLedger(ctx, logger.NewLoggerTo(cfg, os.Stderr), cfg)
	})
	for _, c := range cli.Commands(env) {
		commander.Register(c, "")
	}

	flag.Parse()
	ctx := context.Background()
	status := commander.Execute(ctx)

	if err := env.Close(ctx); err != nil {
		slog.Error("Failed to close ledger", "error", err)
		if status == subcommands.ExitSuccess {
			status = subcommands.ExitFailure
		}
	}
	os.Exit(int(status))
}

// loadConfig shares the server's configuration unless a file is named.
func loadConfig(file string) (*config.Config, error) {
	if file != "" {
		return config.LoadConfigFile(file)
	}
	return config.LoadConfig("ledger_api")
}
