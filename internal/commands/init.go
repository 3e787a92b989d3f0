package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/storage"
)

func newInitCommand() *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create ledgerbook.yaml and an empty ledger database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, ownerID)
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "default", "owner id the ledger belongs to")

	return cmd
}

func runInit(cmd *cobra.Command, dir, ownerID string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	cfg.Owner.ID = ownerID
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening the store creates the database file and its schema.
	store, err := storage.Open(cmd.Context(), filepath.Join(dir, cfg.Database.Path), logging.New(cfg.Logging.Level, io.Discard))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledgerbook at %s\n", dir)
	return nil
}
