package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ListEntries returns the journal of a fiscal year in insertion order.
func (s *Store) ListEntries(ctx context.Context, fiscalYearID int64) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fiscal_year_id, date, debited, credited, amount, description
		FROM journal_entries
		WHERE fiscal_year_id = ?
		ORDER BY id
	`, fiscalYearID)
	if err != nil {
		return nil, &model.StorageError{Op: "list entries", Err: err}
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		var date, amount string
		if err := rows.Scan(&e.ID, &e.FiscalYearID, &date, &e.Debited, &e.Credited, &amount, &e.Description); err != nil {
			return nil, &model.StorageError{Op: "scan entry", Err: err}
		}
		if e.Date, err = time.Parse(model.DateFormat, date); err != nil {
			return nil, &model.StorageError{Op: "scan entry", Err: fmt.Errorf("entry %d: parsing date %q: %w", e.ID, date, err)}
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, &model.StorageError{Op: "scan entry", Err: fmt.Errorf("entry %d: parsing amount %q: %w", e.ID, amount, err)}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list entries", Err: err}
	}
	return entries, nil
}

// ReplaceEntries discards the fiscal year's journal and stores entries in its
// place. Either the whole batch is committed or nothing changes.
func (s *Store) ReplaceEntries(ctx context.Context, fiscalYearID int64, entries []model.Entry) error {
	return s.transaction(ctx, "replace entries", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE fiscal_year_id = ?`, fiscalYearID); err != nil {
			return fmt.Errorf("clearing journal: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO journal_entries (fiscal_year_id, date, debited, credited, amount, description)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i, e := range entries {
			if _, err := stmt.ExecContext(ctx,
				fiscalYearID,
				e.Date.Format(model.DateFormat),
				e.Debited,
				e.Credited,
				e.Amount.String(),
				e.Description,
			); err != nil {
				return fmt.Errorf("inserting entry %d: %w", i, err)
			}
		}
		return nil
	})
}

// HasAccount reports whether account appears on either side of any entry.
func (s *Store) HasAccount(ctx context.Context, fiscalYearID int64, account string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE fiscal_year_id = ? AND (debited = ? OR credited = ?)
		)
	`, fiscalYearID, account, account).Scan(&found)
	if err != nil {
		return false, &model.StorageError{Op: "check account", Err: err}
	}
	return found == 1, nil
}

// Accounts returns the distinct account names of a fiscal year's journal, sorted.
func (s *Store) Accounts(ctx context.Context, fiscalYearID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT debited AS account FROM journal_entries WHERE fiscal_year_id = ?
		UNION
		SELECT credited AS account FROM journal_entries WHERE fiscal_year_id = ?
		ORDER BY account
	`, fiscalYearID, fiscalYearID)
	if err != nil {
		return nil, &model.StorageError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &model.StorageError{Op: "scan account", Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list accounts", Err: err}
	}
	return names, nil
}

// DeleteByAccount removes every entry that references account on either side.
// It returns the number of entries removed.
func (s *Store) DeleteByAccount(ctx context.Context, fiscalYearID int64, account string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE fiscal_year_id = ? AND (debited = ? OR credited = ?)`,
		fiscalYearID, account, account,
	)
	if err != nil {
		return 0, &model.StorageError{Op: "delete account entries", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &model.StorageError{Op: "delete account entries", Err: err}
	}
	return n, nil
}

// RenameAccount repoints entries from oldName to newName and, in the same
// transaction, deletes (merge) or retargets (rename) oldName's classification.
//
// When merging, a side is only repointed if the opposite side is not already
// newName, so no entry becomes a self-transfer. A plain rename moves both
// sides of every row, and any orphan classification left under newName is
// replaced by oldName's.
func (s *Store) RenameAccount(ctx context.Context, fiscalYearID int64, oldName, newName string, merge bool) error {
	return s.transaction(ctx, "rename account", func(tx *sql.Tx) error {
		if merge {
			if _, err := tx.ExecContext(ctx, `
				UPDATE journal_entries SET credited = ?
				WHERE fiscal_year_id = ? AND credited = ? AND debited != ?
			`, newName, fiscalYearID, oldName, newName); err != nil {
				return fmt.Errorf("repointing credited side: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE journal_entries SET debited = ?
				WHERE fiscal_year_id = ? AND debited = ? AND credited != ?
			`, newName, fiscalYearID, oldName, newName); err != nil {
				return fmt.Errorf("repointing debited side: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM classifications WHERE fiscal_year_id = ? AND account = ?`,
				fiscalYearID, oldName,
			); err != nil {
				return fmt.Errorf("dropping merged classification: %w", err)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE journal_entries SET
				debited = CASE WHEN debited = ? THEN ? ELSE debited END,
				credited = CASE WHEN credited = ? THEN ? ELSE credited END
			WHERE fiscal_year_id = ? AND (debited = ? OR credited = ?)
		`, oldName, newName, oldName, newName, fiscalYearID, oldName, oldName); err != nil {
			return fmt.Errorf("repointing entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM classifications WHERE fiscal_year_id = ? AND account = ?`,
			fiscalYearID, newName,
		); err != nil {
			return fmt.Errorf("dropping orphan classification: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE classifications SET account = ? WHERE fiscal_year_id = ? AND account = ?`,
			newName, fiscalYearID, oldName,
		); err != nil {
			return fmt.Errorf("retargeting classification: %w", err)
		}
		return nil
	})
}
