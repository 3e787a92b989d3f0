// Package balancesheet derives a classified balance sheet from a fiscal
// year's journal and account classifications.
package balancesheet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Store is the persistence the builder reads from.
type Store interface {
	FiscalYear(ctx context.Context, ownerID string, id int64) (model.FiscalYear, error)
	ListEntries(ctx context.Context, fiscalYearID int64) ([]model.Entry, error)
	ListClassifications(ctx context.Context, fiscalYearID int64) ([]model.Classification, error)
}

// Pruner removes classifications of accounts that left the journal.
type Pruner interface {
	Prune(ctx context.Context, fiscalYearID int64) ([]string, error)
}

// Item is one account line of a section.
type Item struct {
	Account   string          `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
	Operation model.Operation `json:"operation"`
}

// Assets is the asset side of the sheet.
type Assets struct {
	Current         []Item          `json:"current"`
	CurrentTotal    decimal.Decimal `json:"current_total"`
	Noncurrent      []Item          `json:"noncurrent"`
	NoncurrentTotal decimal.Decimal `json:"noncurrent_total"`
	Total           decimal.Decimal `json:"total"`
}

// Liabilities is the liability side of the sheet, owner's equity included.
type Liabilities struct {
	Current         []Item          `json:"current"`
	CurrentTotal    decimal.Decimal `json:"current_total"`
	Noncurrent      []Item          `json:"noncurrent"`
	NoncurrentTotal decimal.Decimal `json:"noncurrent_total"`
	Equity          []Item          `json:"equity"`
	EquityTotal     decimal.Decimal `json:"equity_total"`
	Total           decimal.Decimal `json:"total"`
}

// Sheet is a derived balance sheet. The two totals are not required to agree.
type Sheet struct {
	FiscalYear  model.FiscalYear `json:"fiscal_year"`
	Assets      Assets           `json:"assets"`
	Liabilities Liabilities      `json:"liabilities"`
}

// Balanced reports whether assets and liabilities total the same amount.
func (s Sheet) Balanced() bool {
	return s.Assets.Total.Equal(s.Liabilities.Total)
}

// Builder builds balance sheets.
type Builder struct {
	store  Store
	pruner Pruner
	logger zerolog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(store Store, pruner Pruner, logger zerolog.Logger) *Builder {
	return &Builder{store: store, pruner: pruner, logger: logger}
}

// Build derives the balance sheet of a fiscal year. On an open fiscal year
// orphan classifications are pruned from storage first; on a closed one they
// are only left out of the result.
func (b *Builder) Build(ctx context.Context, owner model.Owner, fiscalYearID int64) (Sheet, error) {
	fy, err := b.store.FiscalYear(ctx, owner.ID, fiscalYearID)
	if err != nil {
		return Sheet{}, err
	}
	if !model.WritesBlocked(owner, fy) {
		if _, err := b.pruner.Prune(ctx, fy.ID); err != nil {
			return Sheet{}, err
		}
	}

	entries, err := b.store.ListEntries(ctx, fy.ID)
	if err != nil {
		return Sheet{}, fmt.Errorf("loading journal: %w", err)
	}
	classes, err := b.store.ListClassifications(ctx, fy.ID)
	if err != nil {
		return Sheet{}, fmt.Errorf("loading classifications: %w", err)
	}

	sheet := assemble(ledger.ComputeBalances(entries), classes)
	sheet.FiscalYear = fy
	b.logger.Debug().
		Int64("fiscal_year", fy.ID).
		Str("assets", sheet.Assets.Total.String()).
		Str("liabilities", sheet.Liabilities.Total.String()).
		Msg("balance sheet built")
	return sheet, nil
}

// assemble places every classified account that still has a balance entry
// into its section. Classifications are taken in order.
func assemble(balances map[string]model.Balance, classes []model.Classification) Sheet {
	sheet := Sheet{
		Assets: Assets{Current: []Item{}, Noncurrent: []Item{}},
		Liabilities: Liabilities{
			Current:    []Item{},
			Noncurrent: []Item{},
			Equity:     []Item{},
		},
	}

	for _, c := range classes {
		bal, ok := balances[c.Account]
		if !ok {
			continue
		}
		item := Item{Account: c.Account, Amount: bal.Net.Abs(), Operation: c.Operation}

		switch c.Type {
		case model.AccountTypeAsset:
			switch c.Subtype {
			case model.SubtypeCurrent:
				sheet.Assets.Current = append(sheet.Assets.Current, item)
			case model.SubtypeNoncurrent:
				sheet.Assets.Noncurrent = append(sheet.Assets.Noncurrent, item)
			}
		case model.AccountTypeLiability:
			switch c.Subtype {
			case model.SubtypeCurrent:
				sheet.Liabilities.Current = append(sheet.Liabilities.Current, item)
			case model.SubtypeNoncurrent:
				sheet.Liabilities.Noncurrent = append(sheet.Liabilities.Noncurrent, item)
			case model.SubtypeEquity:
				sheet.Liabilities.Equity = append(sheet.Liabilities.Equity, item)
			}
		}
	}

	a := &sheet.Assets
	a.CurrentTotal = subtotal(a.Current)
	a.NoncurrentTotal = subtotal(a.Noncurrent)
	a.Total = a.CurrentTotal.Add(a.NoncurrentTotal)

	l := &sheet.Liabilities
	l.CurrentTotal = subtotal(l.Current)
	l.NoncurrentTotal = subtotal(l.Noncurrent)
	l.EquityTotal = subtotal(l.Equity)
	l.Total = l.CurrentTotal.Add(l.NoncurrentTotal).Add(l.EquityTotal)
	return sheet
}

func subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Operation == model.OperationLess {
			total = total.Sub(it.Amount)
		} else {
			total = total.Add(it.Amount)
		}
	}
	return total
}
