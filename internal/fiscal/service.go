// Package fiscal manages the lifecycle of an owner's fiscal years.
package fiscal

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// FieldName is the input field reported for an invalid fiscal year name.
const FieldName = "fy_name"

// Store is the persistence the fiscal year service needs.
type Store interface {
	CreateFiscalYear(ctx context.Context, ownerID, name string) (model.FiscalYear, error)
	FiscalYear(ctx context.Context, ownerID string, id int64) (model.FiscalYear, error)
	FiscalYearByName(ctx context.Context, ownerID, name string) (model.FiscalYear, bool, error)
	ListFiscalYears(ctx context.Context, ownerID string) ([]model.FiscalYear, error)
	RenameFiscalYear(ctx context.Context, ownerID string, id int64, name string) error
	SetFiscalYearStatus(ctx context.Context, ownerID string, id int64, status model.Status) error
	DeleteFiscalYear(ctx context.Context, ownerID string, id int64) error
}

// Service creates, renames, toggles and deletes fiscal years.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a fiscal year Service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create opens a new fiscal year for owner.
func (s *Service) Create(ctx context.Context, owner model.Owner, name string) (model.FiscalYear, error) {
	if owner.Closed() {
		return model.FiscalYear{}, model.ErrAccountClosed
	}
	name, err := s.checkName(ctx, owner, name, 0)
	if err != nil {
		return model.FiscalYear{}, err
	}

	fy, err := s.store.CreateFiscalYear(ctx, owner.ID, name)
	if err != nil {
		return model.FiscalYear{}, fmt.Errorf("creating fiscal year: %w", err)
	}
	s.logger.Debug().Str("owner", owner.ID).Int64("fiscal_year", fy.ID).Str("name", fy.Name).Msg("fiscal year created")
	return fy, nil
}

// List returns owner's fiscal years in creation order.
func (s *Service) List(ctx context.Context, owner model.Owner) ([]model.FiscalYear, error) {
	years, err := s.store.ListFiscalYears(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("listing fiscal years: %w", err)
	}
	return years, nil
}

// Get returns one of owner's fiscal years.
func (s *Service) Get(ctx context.Context, owner model.Owner, id int64) (model.FiscalYear, error) {
	return s.store.FiscalYear(ctx, owner.ID, id)
}

// Rename changes a fiscal year's name. Keeping the current name is allowed.
func (s *Service) Rename(ctx context.Context, owner model.Owner, id int64, name string) (model.FiscalYear, error) {
	if owner.Closed() {
		return model.FiscalYear{}, model.ErrAccountClosed
	}
	fy, err := s.store.FiscalYear(ctx, owner.ID, id)
	if err != nil {
		return model.FiscalYear{}, err
	}
	name, err = s.checkName(ctx, owner, name, fy.ID)
	if err != nil {
		return model.FiscalYear{}, err
	}

	if err := s.store.RenameFiscalYear(ctx, owner.ID, fy.ID, name); err != nil {
		return model.FiscalYear{}, fmt.Errorf("renaming fiscal year: %w", err)
	}
	s.logger.Debug().Int64("fiscal_year", fy.ID).Str("from", fy.Name).Str("to", name).Msg("fiscal year renamed")
	fy.Name = name
	return fy, nil
}

// Toggle flips a fiscal year between open and closed and returns the new status.
func (s *Service) Toggle(ctx context.Context, owner model.Owner, id int64) (model.Status, error) {
	if owner.Closed() {
		return "", model.ErrAccountClosed
	}
	fy, err := s.store.FiscalYear(ctx, owner.ID, id)
	if err != nil {
		return "", err
	}
	status := fy.Status.Toggled()
	if err := s.store.SetFiscalYearStatus(ctx, owner.ID, fy.ID, status); err != nil {
		return "", fmt.Errorf("toggling fiscal year: %w", err)
	}
	s.logger.Debug().Int64("fiscal_year", fy.ID).Str("status", string(status)).Msg("fiscal year toggled")
	return status, nil
}

// Delete removes a fiscal year with its journal and classifications,
// whether it is open or closed.
func (s *Service) Delete(ctx context.Context, owner model.Owner, id int64) error {
	if owner.Closed() {
		return model.ErrAccountClosed
	}
	if err := s.store.DeleteFiscalYear(ctx, owner.ID, id); err != nil {
		return err
	}
	s.logger.Debug().Str("owner", owner.ID).Int64("fiscal_year", id).Msg("fiscal year deleted")
	return nil
}

// checkName trims name and makes sure no other fiscal year of owner uses it.
// self is the id of the year being renamed, or 0.
func (s *Service) checkName(ctx context.Context, owner model.Owner, name string, self int64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.NewFieldError(FieldName, model.ReasonEmpty)
	}
	existing, ok, err := s.store.FiscalYearByName(ctx, owner.ID, name)
	if err != nil {
		return "", fmt.Errorf("checking fiscal year name: %w", err)
	}
	if ok && existing.ID != self {
		return "", &model.DuplicateNameError{Name: name, ID: existing.ID}
	}
	return name, nil
}
