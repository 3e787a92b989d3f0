package balancesheet

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/storage"
)

var owner = model.Owner{ID: "u1", Status: model.StatusOpen}

type fixture struct {
	store      *storage.Store
	fy         model.FiscalYear
	classifier *accounts.Service
	ledger     *ledger.Service
	builder    *Builder
}

func newFixture(t *testing.T, entries ...model.Entry) *fixture {
	t.Helper()
	ctx := context.Background()
	st, err := storage.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"), logging.Silent())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fy, err := st.CreateFiscalYear(ctx, owner.ID, "FY2024")
	require.NoError(t, err)
	require.NoError(t, st.ReplaceEntries(ctx, fy.ID, entries))

	classifier := accounts.NewService(st, logging.Silent())
	return &fixture{
		store:      st,
		fy:         fy,
		classifier: classifier,
		ledger:     ledger.NewService(st, logging.Silent()),
		builder:    NewBuilder(st, classifier, logging.Silent()),
	}
}

func (f *fixture) classify(t *testing.T, account, typ, subtype, op string) {
	t.Helper()
	_, err := f.classifier.Classify(context.Background(), owner, f.fy.ID, accounts.Request{
		Account: account, Type: typ, Subtype: subtype, Operation: op,
	})
	require.NoError(t, err)
}

func entry(debited, credited string, amount int64) model.Entry {
	return model.Entry{
		Date:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Debited:     debited,
		Credited:    credited,
		Amount:      decimal.NewFromInt(amount),
		Description: debited + " / " + credited,
	}
}

func amounts(items []Item) map[string]string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[it.Account] = it.Amount.String()
	}
	return m
}

func TestBuildCashCapital(t *testing.T) {
	f := newFixture(t, entry("Cash", "Capital", 1000))
	f.classify(t, "Cash", "asset", "current", "add")
	f.classify(t, "Capital", "liability", "equity", "add")

	sheet, err := f.builder.Build(context.Background(), owner, f.fy.ID)
	require.NoError(t, err)

	require.Len(t, sheet.Assets.Current, 1)
	assert.Equal(t, "Cash", sheet.Assets.Current[0].Account)
	assert.Equal(t, "1000", sheet.Assets.Current[0].Amount.String())
	assert.Equal(t, "1000", sheet.Assets.Total.String())

	require.Len(t, sheet.Liabilities.Equity, 1)
	assert.Equal(t, "Capital", sheet.Liabilities.Equity[0].Account)
	assert.Equal(t, "1000", sheet.Liabilities.EquityTotal.String())
	assert.Equal(t, "1000", sheet.Liabilities.Total.String())
	assert.Empty(t, sheet.Liabilities.Current)
	assert.True(t, sheet.Balanced())
}

func TestBuildOperationsAndSections(t *testing.T) {
	f := newFixture(t,
		entry("Cash", "Capital", 5000),
		entry("Equipment", "Cash", 3000),
		entry("Depreciation", "AccumulatedDepreciation", 500),
		entry("Cash", "Loan", 2000),
		entry("Drawings", "Cash", 400),
	)
	f.classify(t, "Cash", "asset", "current", "add")
	f.classify(t, "Equipment", "asset", "noncurrent", "add")
	f.classify(t, "AccumulatedDepreciation", "asset", "noncurrent", "less")
	f.classify(t, "Loan", "liability", "noncurrent", "add")
	f.classify(t, "Capital", "liability", "equity", "add")
	f.classify(t, "Drawings", "liability", "equity", "less")

	sheet, err := f.builder.Build(context.Background(), owner, f.fy.ID)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Cash": "3600"}, amounts(sheet.Assets.Current))
	assert.Equal(t, []string{"Equipment", "AccumulatedDepreciation"},
		[]string{sheet.Assets.Noncurrent[0].Account, sheet.Assets.Noncurrent[1].Account},
		"sections keep classification order")
	assert.Equal(t, "2500", sheet.Assets.NoncurrentTotal.String())
	assert.Equal(t, "6100", sheet.Assets.Total.String())

	assert.Equal(t, "2000", sheet.Liabilities.NoncurrentTotal.String())
	assert.Equal(t, "4600", sheet.Liabilities.EquityTotal.String())
	assert.Equal(t, "6600", sheet.Liabilities.Total.String())
	assert.False(t, sheet.Balanced(), "unclassified expenses leave the sheet unbalanced")
}

func TestBuildNotaRemovesAccount(t *testing.T) {
	f := newFixture(t, entry("Cash", "Capital", 1000))
	f.classify(t, "Cash", "asset", "current", "add")
	f.classify(t, "Cash", "nota", "", "")

	sheet, err := f.builder.Build(context.Background(), owner, f.fy.ID)
	require.NoError(t, err)
	assert.Empty(t, sheet.Assets.Current)
	assert.True(t, sheet.Assets.Total.IsZero())
}

func TestBuildPrunesOrphans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entry("Cash", "Capital", 1000), entry("Bank", "Capital", 50))
	f.classify(t, "Cash", "asset", "current", "add")
	f.classify(t, "Bank", "asset", "current", "add")

	_, err := f.ledger.Delete(ctx, owner, f.fy.ID, "Cash")
	require.NoError(t, err)

	sheet, err := f.builder.Build(ctx, owner, f.fy.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Bank": "50"}, amounts(sheet.Assets.Current))

	_, ok, err := f.store.Classification(ctx, f.fy.ID, "Cash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildClosedFiscalYearDoesNotPrune(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entry("Cash", "Capital", 1000), entry("Bank", "Capital", 50))
	f.classify(t, "Cash", "asset", "current", "add")
	f.classify(t, "Bank", "asset", "current", "add")
	_, err := f.ledger.Delete(ctx, owner, f.fy.ID, "Cash")
	require.NoError(t, err)
	require.NoError(t, f.store.SetFiscalYearStatus(ctx, owner.ID, f.fy.ID, model.StatusClosed))

	sheet, err := f.builder.Build(ctx, owner, f.fy.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Bank": "50"}, amounts(sheet.Assets.Current))

	_, ok, err := f.store.Classification(ctx, f.fy.ID, "Cash")
	require.NoError(t, err)
	assert.True(t, ok, "closed fiscal year is read only")
}

func TestBuildUnknownFiscalYear(t *testing.T) {
	f := newFixture(t)
	_, err := f.builder.Build(context.Background(), owner, f.fy.ID+10)
	assert.ErrorIs(t, err, model.ErrInvalidID)

	other := model.Owner{ID: "u2", Status: model.StatusOpen}
	_, err = f.builder.Build(context.Background(), other, f.fy.ID)
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestSheetJSONShape(t *testing.T) {
	sheet := assemble(nil, nil)
	data, err := json.Marshal(sheet)
	require.NoError(t, err)

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.ElementsMatch(t,
		[]string{"current", "current_total", "noncurrent", "noncurrent_total", "total"},
		keys(got["assets"]))
	assert.ElementsMatch(t,
		[]string{"current", "current_total", "noncurrent", "noncurrent_total", "equity", "equity_total", "total"},
		keys(got["liabilities"]))
	assert.Equal(t, []any{}, got["assets"]["current"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
