package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Store is the SQLite-backed ledger store. It is safe for concurrent use;
// callers serialize mutations per fiscal year.
type Store struct {
	db     *sql.DB
	path   string
	logger zerolog.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
// Foreign keys are enabled so fiscal-year deletion cascades.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &model.StorageError{Op: "create database directory", Err: err}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &model.StorageError{Op: "open database", Err: err}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &model.StorageError{Op: "ping database", Err: err}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, &model.StorageError{Op: "initialize schema", Err: err}
	}

	logger.Debug().Str("path", path).Msg("database opened")
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// transaction runs fn inside a transaction, rolling back if fn fails.
func (s *Store) transaction(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.StorageError{Op: op, Err: fmt.Errorf("begin transaction: %w", err)}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &model.StorageError{Op: op, Err: errors.Join(err, fmt.Errorf("rollback: %w", rbErr))}
		}
		return &model.StorageError{Op: op, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &model.StorageError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}
