package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

const fiscalYearColumns = `id, owner_id, name, status`

func scanFiscalYear(row interface{ Scan(...any) error }) (model.FiscalYear, error) {
	var fy model.FiscalYear
	var status string
	if err := row.Scan(&fy.ID, &fy.OwnerID, &fy.Name, &status); err != nil {
		return model.FiscalYear{}, err
	}
	fy.Status = model.Status(status)
	return fy, nil
}

// CreateFiscalYear inserts an open fiscal year for owner.
func (s *Store) CreateFiscalYear(ctx context.Context, ownerID, name string) (model.FiscalYear, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fiscal_years (owner_id, name, status) VALUES (?, ?, ?)`,
		ownerID, name, string(model.StatusOpen),
	)
	if err != nil {
		return model.FiscalYear{}, &model.StorageError{Op: "create fiscal year", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.FiscalYear{}, &model.StorageError{Op: "create fiscal year", Err: err}
	}
	return model.FiscalYear{ID: id, OwnerID: ownerID, Name: name, Status: model.StatusOpen}, nil
}

// FiscalYear returns the owner's fiscal year with the given id.
// It returns model.ErrInvalidID if there is none.
func (s *Store) FiscalYear(ctx context.Context, ownerID string, id int64) (model.FiscalYear, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	fy, err := scanFiscalYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FiscalYear{}, model.ErrInvalidID
	}
	if err != nil {
		return model.FiscalYear{}, &model.StorageError{Op: "get fiscal year", Err: err}
	}
	return fy, nil
}

// FiscalYearByName looks up an owner's fiscal year by exact name.
func (s *Store) FiscalYearByName(ctx context.Context, ownerID, name string) (model.FiscalYear, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE owner_id = ? AND name = ?`,
		ownerID, name,
	)
	fy, err := scanFiscalYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FiscalYear{}, false, nil
	}
	if err != nil {
		return model.FiscalYear{}, false, &model.StorageError{Op: "get fiscal year by name", Err: err}
	}
	return fy, true, nil
}

// ListFiscalYears returns the owner's fiscal years in creation order.
func (s *Store) ListFiscalYears(ctx context.Context, ownerID string) ([]model.FiscalYear, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE owner_id = ? ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, &model.StorageError{Op: "list fiscal years", Err: err}
	}
	defer rows.Close()

	years := []model.FiscalYear{}
	for rows.Next() {
		fy, err := scanFiscalYear(rows)
		if err != nil {
			return nil, &model.StorageError{Op: "scan fiscal year", Err: err}
		}
		years = append(years, fy)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list fiscal years", Err: err}
	}
	return years, nil
}

// RenameFiscalYear changes the name of an owner's fiscal year.
func (s *Store) RenameFiscalYear(ctx context.Context, ownerID string, id int64, name string) error {
	return s.updateFiscalYear(ctx, "rename fiscal year",
		`UPDATE fiscal_years SET name = ? WHERE owner_id = ? AND id = ?`, name, ownerID, id)
}

// SetFiscalYearStatus stores the open/closed state of an owner's fiscal year.
func (s *Store) SetFiscalYearStatus(ctx context.Context, ownerID string, id int64, status model.Status) error {
	return s.updateFiscalYear(ctx, "set fiscal year status",
		`UPDATE fiscal_years SET status = ? WHERE owner_id = ? AND id = ?`, string(status), ownerID, id)
}

// DeleteFiscalYear removes a fiscal year. Its entries and classifications go with it.
func (s *Store) DeleteFiscalYear(ctx context.Context, ownerID string, id int64) error {
	return s.updateFiscalYear(ctx, "delete fiscal year",
		`DELETE FROM fiscal_years WHERE owner_id = ? AND id = ?`, ownerID, id)
}

func (s *Store) updateFiscalYear(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &model.StorageError{Op: op, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &model.StorageError{Op: op, Err: err}
	}
	if n == 0 {
		return model.ErrInvalidID
	}
	return nil
}
