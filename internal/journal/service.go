package journal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Store is the persistence the journal service needs.
type Store interface {
	FiscalYear(ctx context.Context, ownerID string, id int64) (model.FiscalYear, error)
	ListEntries(ctx context.Context, fiscalYearID int64) ([]model.Entry, error)
	ReplaceEntries(ctx context.Context, fiscalYearID int64, entries []model.Entry) error
}

// Service provides business logic for journal batches.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a journal Service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Listing is a fiscal year's journal with its grand total.
type Listing struct {
	FiscalYear model.FiscalYear `json:"fiscal_year"`
	Entries    []model.Entry    `json:"rows"`
	Total      decimal.Decimal  `json:"total"`
}

// Replace validates drafts and swaps them in as the fiscal year's entire
// journal. The latest submission wins; there is no incremental append.
//
// When the owner or the fiscal year is closed nothing is written and
// model.OutcomeSkipped is returned with a nil error.
func (s *Service) Replace(ctx context.Context, owner model.Owner, fiscalYearID int64, drafts []Draft) (model.Outcome, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return "", err
	}

	if model.WritesBlocked(owner, fy) {
		s.logger.Info().Int64("fiscal_year", fy.ID).Msg("journal replace skipped: closed")
		return model.OutcomeSkipped, nil
	}

	entries, err := ValidateBatch(drafts)
	if err != nil {
		return "", err
	}

	if err := s.store.ReplaceEntries(ctx, fy.ID, entries); err != nil {
		return "", fmt.Errorf("replacing journal: %w", err)
	}

	s.logger.Debug().Int64("fiscal_year", fy.ID).Int("entries", len(entries)).Msg("journal replaced")
	return model.OutcomeApplied, nil
}

// List returns the fiscal year's entries in submission order and their total.
func (s *Service) List(ctx context.Context, owner model.Owner, fiscalYearID int64) (Listing, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return Listing{}, err
	}

	entries, err := s.store.ListEntries(ctx, fy.ID)
	if err != nil {
		return Listing{}, fmt.Errorf("listing journal: %w", err)
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return Listing{FiscalYear: fy, Entries: entries, Total: total}, nil
}
