package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Request field names, as reported in FieldErrors.
const (
	FieldAccount   = "account"
	FieldType      = "type"
	FieldSubtype   = "subtype"
	FieldOperation = "operation"
)

// Store is the persistence the classifier needs.
type Store interface {
	FiscalYear(ctx context.Context, ownerID string, id int64) (model.FiscalYear, error)
	HasAccount(ctx context.Context, fiscalYearID int64, account string) (bool, error)
	ListClassifications(ctx context.Context, fiscalYearID int64) ([]model.Classification, error)
	Classification(ctx context.Context, fiscalYearID int64, account string) (model.Classification, bool, error)
	PutClassification(ctx context.Context, c model.Classification) error
	DeleteClassification(ctx context.Context, fiscalYearID int64, account string) error
	PruneClassifications(ctx context.Context, fiscalYearID int64) ([]string, error)
}

// Request is a balance-sheet placement submitted for one account.
// Subtype and Operation are ignored when Type is nota.
type Request struct {
	Account   string
	Type      string
	Subtype   string
	Operation string
}

// Result reports what Classify did. Classification is the stored row after
// an insert or update, and nil otherwise.
type Result struct {
	Outcome        model.Outcome         `json:"outcome"`
	Classification *model.Classification `json:"classification,omitempty"`
}

// Service maintains the classifications of a fiscal year's accounts.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a classifier Service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Classify places an account on the balance sheet, or with type nota removes
// its placement. Identical re-submissions report OutcomeUnchanged.
func (s *Service) Classify(ctx context.Context, owner model.Owner, fiscalYearID int64, req Request) (Result, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return Result{}, err
	}
	if model.WritesBlocked(owner, fy) {
		s.logger.Info().Int64("fiscal_year", fy.ID).Str("account", req.Account).Msg("classification skipped: closed")
		return Result{Outcome: model.OutcomeSkipped}, nil
	}

	c, err := validate(fy.ID, req)
	if err != nil {
		return Result{}, err
	}

	ok, err := s.store.HasAccount(ctx, fy.ID, c.Account)
	if err != nil {
		return Result{}, fmt.Errorf("checking %q: %w", c.Account, err)
	}
	if !ok {
		return Result{}, fmt.Errorf("account %q: %w", c.Account, model.ErrInvalidAccount)
	}

	existing, found, err := s.store.Classification(ctx, fy.ID, c.Account)
	if err != nil {
		return Result{}, fmt.Errorf("loading classification: %w", err)
	}

	switch {
	case c.Type == model.AccountTypeNone && !found:
		return Result{Outcome: model.OutcomeUnchanged}, nil
	case c.Type == model.AccountTypeNone:
		if err := s.store.DeleteClassification(ctx, fy.ID, c.Account); err != nil {
			return Result{}, fmt.Errorf("removing classification: %w", err)
		}
		s.logger.Debug().Int64("fiscal_year", fy.ID).Str("account", c.Account).Msg("classification removed")
		return Result{Outcome: model.OutcomeApplied}, nil
	case found && existing.Same(c):
		return Result{Outcome: model.OutcomeUnchanged, Classification: &existing}, nil
	}

	if err := s.store.PutClassification(ctx, c); err != nil {
		return Result{}, fmt.Errorf("saving classification: %w", err)
	}
	s.logger.Debug().
		Int64("fiscal_year", fy.ID).
		Str("account", c.Account).
		Str("type", string(c.Type)).
		Str("subtype", string(c.Subtype)).
		Str("operation", string(c.Operation)).
		Bool("updated", found).
		Msg("account classified")
	return Result{Outcome: model.OutcomeApplied, Classification: &c}, nil
}

// List returns the fiscal year's classifications in the order they were first made.
func (s *Service) List(ctx context.Context, owner model.Owner, fiscalYearID int64) ([]model.Classification, error) {
	fy, err := s.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	classes, err := s.store.ListClassifications(ctx, fy.ID)
	if err != nil {
		return nil, fmt.Errorf("loading classifications: %w", err)
	}
	return classes, nil
}

// Prune deletes classifications of accounts that are no longer in the
// journal and returns their names.
func (s *Service) Prune(ctx context.Context, fiscalYearID int64) ([]string, error) {
	pruned, err := s.store.PruneClassifications(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("pruning classifications: %w", err)
	}
	if len(pruned) > 0 {
		s.logger.Debug().Int64("fiscal_year", fiscalYearID).Strs("accounts", pruned).Msg("orphan classifications pruned")
	}
	return pruned, nil
}

func validate(fiscalYearID int64, req Request) (model.Classification, error) {
	account := strings.TrimSpace(req.Account)
	if account == "" {
		return model.Classification{}, model.NewFieldError(FieldAccount, model.ReasonMissing)
	}
	typ := model.AccountType(strings.TrimSpace(req.Type))
	if typ == "" {
		return model.Classification{}, model.NewFieldError(FieldType, model.ReasonMissing)
	}

	c := model.Classification{FiscalYearID: fiscalYearID, Account: account, Type: typ}
	switch typ {
	case model.AccountTypeNone:
		return c, nil
	case model.AccountTypeAsset, model.AccountTypeLiability:
	default:
		return model.Classification{}, model.NewFieldError(FieldType, model.ReasonInvalid)
	}

	c.Subtype = model.Subtype(strings.TrimSpace(req.Subtype))
	switch c.Subtype {
	case model.SubtypeCurrent, model.SubtypeNoncurrent:
	case model.SubtypeEquity:
		if typ == model.AccountTypeAsset {
			return model.Classification{}, model.NewFieldError(FieldSubtype, model.ReasonInvalid)
		}
	default:
		return model.Classification{}, model.NewFieldError(FieldSubtype, model.ReasonInvalid)
	}

	c.Operation = model.Operation(strings.TrimSpace(req.Operation))
	switch c.Operation {
	case model.OperationAdd, model.OperationLess:
	default:
		return model.Classification{}, model.NewFieldError(FieldOperation, model.ReasonInvalid)
	}
	return c, nil
}
