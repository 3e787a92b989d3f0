package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/balancesheet"
	"github.com/cleared-dev/ledgerbook/internal/buildinfo"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/fiscal"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/storage"
)

// skippedMessage is printed when a write hit a closed fiscal year or owner.
const skippedMessage = "no changes (fiscal year or account closed)"

type globalOptions struct {
	configPath string
	debug      bool
	json       bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "ledgerbook",
		Short:   "Double-entry journals and balance sheets per fiscal year",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileName, "path to ledgerbook.yaml")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newInitCommand(),
		newFiscalYearCommand(opts),
		newJournalCommand(opts),
		newLedgerCommand(opts),
		newBalanceSheetCommand(opts),
	)

	return rootCmd
}

// app is the wired engine for one command invocation.
type app struct {
	opts   *globalOptions
	owner  model.Owner
	store  *storage.Store
	logger zerolog.Logger

	fiscal   *fiscal.Service
	journal  *journal.Service
	ledger   *ledger.Service
	accounts *accounts.Service
	sheets   *balancesheet.Builder
}

// openApp resolves configuration, opens the store and builds the services.
// Callers must Close the returned app.
func openApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.debug {
		level = "debug"
	}
	logger := logging.New(level, cmd.ErrOrStderr())

	store, err := storage.Open(cmd.Context(), cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}

	classifier := accounts.NewService(store, logger)
	return &app{
		opts:     opts,
		owner:    cfg.OwnerIdentity(),
		store:    store,
		logger:   logger,
		fiscal:   fiscal.NewService(store, logger),
		journal:  journal.NewService(store, logger),
		ledger:   ledger.NewService(store, logger),
		accounts: classifier,
		sheets:   balancesheet.NewBuilder(store, classifier, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func withApp(opts *globalOptions, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), cmd, a, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", s, model.ErrInvalidID)
	}
	return id, nil
}
