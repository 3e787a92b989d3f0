package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Store is the persistence the ledger service needs.
type Store interface {
	FiscalYear(ctx context.Context, ownerID string, id int64) (model.FiscalYear, error)
	ListEntries(ctx context.Context, fiscalYearID int64) ([]model.Entry, error)
	HasAccount(ctx context.Context, fiscalYearID int64, account string) (bool, error)
	DeleteByAccount(ctx context.Context, fiscalYearID int64, account string) (int64, error)
	RenameAccount(ctx context.Context, fiscalYearID int64, oldName, newName string, merge bool) error
	ListClassifications(ctx context.Context, fiscalYearID int64) ([]model.Classification, error)
}

// Act tells which kind of account rename took place.
type Act string

const (
	// ActRename moved the account to a new name; its classification follows.
	ActRename Act = "rename"
	// ActRemove merged the account into an existing one; its classification is dropped.
	ActRemove Act = "remove"
)

// RenameResult reports the effect of Rename.
type RenameResult struct {
	Act     Act           `json:"act,omitempty"`
	Outcome model.Outcome `json:"outcome"`
}

// AccountSummary is one account of the journal with its classification, if any.
type AccountSummary struct {
	Account        string                `json:"account"`
	Balance        model.Balance         `json:"balance"`
	Classification *model.Classification `json:"classification,omitempty"`
}

// Service computes balances and edits the account universe of a fiscal year.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a ledger Service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Balances returns the debit/credit position of every account in the journal.
func (s *Service) Balances(ctx context.Context, owner model.Owner, fiscalYearID int64) (map[string]model.Balance, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, fy.ID)
	if err != nil {
		return nil, fmt.Errorf("loading journal: %w", err)
	}
	return ComputeBalances(entries), nil
}

// Accounts lists the journal's accounts by name with their balance and classification.
func (s *Service) Accounts(ctx context.Context, owner model.Owner, fiscalYearID int64) ([]AccountSummary, error) {
	balances, err := s.Balances(ctx, owner, fiscalYearID)
	if err != nil {
		return nil, err
	}
	classes, err := s.store.ListClassifications(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("loading classifications: %w", err)
	}
	byAccount := make(map[string]model.Classification, len(classes))
	for _, c := range classes {
		byAccount[c.Account] = c
	}

	names := SortedNames(balances)
	result := make([]AccountSummary, 0, len(names))
	for _, name := range names {
		summary := AccountSummary{Account: name, Balance: balances[name]}
		if c, ok := byAccount[name]; ok {
			summary.Classification = &c
		}
		result = append(result, summary)
	}
	return result, nil
}

// Account returns the T-account of one account.
// It returns model.ErrInvalidAccount if the account is not in the journal.
func (s *Service) Account(ctx context.Context, owner model.Owner, fiscalYearID int64, account string) (AccountLedger, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return AccountLedger{}, err
	}
	entries, err := s.store.ListEntries(ctx, fy.ID)
	if err != nil {
		return AccountLedger{}, fmt.Errorf("loading journal: %w", err)
	}
	al, ok := BuildAccountLedger(entries, account)
	if !ok {
		return AccountLedger{}, fmt.Errorf("account %q: %w", account, model.ErrInvalidAccount)
	}
	return al, nil
}

// Rename repoints every entry of oldName to newName. If newName is already in
// the journal the accounts are merged (ActRemove) and oldName's classification
// is deleted; otherwise the classification moves with the account (ActRename).
func (s *Service) Rename(ctx context.Context, owner model.Owner, fiscalYearID int64, oldName, newName string) (RenameResult, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return RenameResult{}, err
	}
	if model.WritesBlocked(owner, fy) {
		s.logger.Info().Int64("fiscal_year", fy.ID).Str("account", oldName).Msg("account rename skipped: closed")
		return RenameResult{Outcome: model.OutcomeSkipped}, nil
	}

	if err := s.requireAccount(ctx, fy.ID, oldName); err != nil {
		return RenameResult{}, err
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return RenameResult{}, model.NewFieldError("new_name", model.ReasonEmpty)
	}
	if newName == oldName {
		return RenameResult{Act: ActRename, Outcome: model.OutcomeUnchanged}, nil
	}

	merge, err := s.store.HasAccount(ctx, fy.ID, newName)
	if err != nil {
		return RenameResult{}, fmt.Errorf("checking %q: %w", newName, err)
	}
	act := ActRename
	if merge {
		act = ActRemove
	}

	if err := s.store.RenameAccount(ctx, fy.ID, oldName, newName, merge); err != nil {
		return RenameResult{}, fmt.Errorf("renaming %q: %w", oldName, err)
	}

	s.logger.Debug().
		Int64("fiscal_year", fy.ID).
		Str("from", oldName).
		Str("to", newName).
		Str("act", string(act)).
		Msg("account renamed")
	return RenameResult{Act: act, Outcome: model.OutcomeApplied}, nil
}

// Delete removes every entry that references account. Its classification, if
// any, is left for the balance sheet builder to prune.
func (s *Service) Delete(ctx context.Context, owner model.Owner, fiscalYearID int64, account string) (model.Outcome, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return "", err
	}
	if model.WritesBlocked(owner, fy) {
		s.logger.Info().Int64("fiscal_year", fy.ID).Str("account", account).Msg("account delete skipped: closed")
		return model.OutcomeSkipped, nil
	}
	if err := s.requireAccount(ctx, fy.ID, account); err != nil {
		return "", err
	}

	n, err := s.store.DeleteByAccount(ctx, fy.ID, account)
	if err != nil {
		return "", fmt.Errorf("deleting %q: %w", account, err)
	}
	s.logger.Debug().Int64("fiscal_year", fy.ID).Str("account", account).Int64("entries", n).Msg("account deleted")
	return model.OutcomeApplied, nil
}

func (s *Service) requireAccount(ctx context.Context, fiscalYearID int64, account string) error {
	ok, err := s.store.HasAccount(ctx, fiscalYearID, account)
	if err != nil {
		return fmt.Errorf("checking %q: %w", account, err)
	}
	if !ok {
		return fmt.Errorf("account %q: %w", account, model.ErrInvalidAccount)
	}
	return nil
}
