package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func scanClassification(row interface{ Scan(...any) error }) (model.Classification, error) {
	var c model.Classification
	var typ, subtype, op string
	if err := row.Scan(&c.FiscalYearID, &c.Account, &typ, &subtype, &op); err != nil {
		return model.Classification{}, err
	}
	c.Type = model.AccountType(typ)
	c.Subtype = model.Subtype(subtype)
	c.Operation = model.Operation(op)
	return c, nil
}

// ListClassifications returns a fiscal year's classifications in the order
// they were first made.
func (s *Store) ListClassifications(ctx context.Context, fiscalYearID int64) ([]model.Classification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fiscal_year_id, account, type, subtype, operation
		FROM classifications
		WHERE fiscal_year_id = ?
		ORDER BY id
	`, fiscalYearID)
	if err != nil {
		return nil, &model.StorageError{Op: "list classifications", Err: err}
	}
	defer rows.Close()

	result := []model.Classification{}
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, &model.StorageError{Op: "scan classification", Err: err}
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list classifications", Err: err}
	}
	return result, nil
}

// Classification returns the classification of account, if any.
func (s *Store) Classification(ctx context.Context, fiscalYearID int64, account string) (model.Classification, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fiscal_year_id, account, type, subtype, operation
		FROM classifications
		WHERE fiscal_year_id = ? AND account = ?
	`, fiscalYearID, account)
	c, err := scanClassification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Classification{}, false, nil
	}
	if err != nil {
		return model.Classification{}, false, &model.StorageError{Op: "get classification", Err: err}
	}
	return c, true, nil
}

// PutClassification inserts c, or overwrites the existing row for its account
// while keeping that row's position.
func (s *Store) PutClassification(ctx context.Context, c model.Classification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classifications (fiscal_year_id, account, type, subtype, operation)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fiscal_year_id, account) DO UPDATE SET
			type = excluded.type,
			subtype = excluded.subtype,
			operation = excluded.operation
	`, c.FiscalYearID, c.Account, string(c.Type), string(c.Subtype), string(c.Operation))
	if err != nil {
		return &model.StorageError{Op: "put classification", Err: err}
	}
	return nil
}

// DeleteClassification removes the classification of account, if any.
func (s *Store) DeleteClassification(ctx context.Context, fiscalYearID int64, account string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM classifications WHERE fiscal_year_id = ? AND account = ?`,
		fiscalYearID, account,
	)
	if err != nil {
		return &model.StorageError{Op: "delete classification", Err: err}
	}
	return nil
}

// PruneClassifications deletes classifications whose account no longer
// appears in the journal and returns the pruned account names.
func (s *Store) PruneClassifications(ctx context.Context, fiscalYearID int64) ([]string, error) {
	var pruned []string
	err := s.transaction(ctx, "prune classifications", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT c.account FROM classifications c
			WHERE c.fiscal_year_id = ?
			AND NOT EXISTS (
				SELECT 1 FROM journal_entries j
				WHERE j.fiscal_year_id = c.fiscal_year_id
				AND (j.debited = c.account OR j.credited = c.account)
			)
			ORDER BY c.id
		`, fiscalYearID)
		if err != nil {
			return fmt.Errorf("finding orphans: %w", err)
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("scanning orphan: %w", err)
			}
			pruned = append(pruned, name)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("finding orphans: %w", err)
		}
		rows.Close()

		for _, name := range pruned {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM classifications WHERE fiscal_year_id = ? AND account = ?`,
				fiscalYearID, name,
			); err != nil {
				return fmt.Errorf("deleting orphan %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pruned, nil
}
