package fiscal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/storage"
)

var owner = model.Owner{ID: "u1", Status: model.StatusOpen}

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	st, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), logging.Silent())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, logging.Silent()), st
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, owner, "  FY2023 ")
	require.NoError(t, err)
	assert.Equal(t, "FY2023", a.Name)
	assert.Equal(t, model.StatusOpen, a.Status)

	_, err = svc.Create(ctx, owner, "FY2024")
	require.NoError(t, err)

	years, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, "FY2023", years[0].Name)

	others, err := svc.List(ctx, model.Owner{ID: "u2"})
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, owner, "   ")
	var fe *model.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldName, fe.Field)
	assert.Equal(t, model.ReasonEmpty, fe.Reason)

	first, err := svc.Create(ctx, owner, "FY2024")
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, "FY2024")
	var dup *model.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.ID)

	_, err = svc.Create(ctx, model.Owner{ID: "u2", Status: model.StatusOpen}, "FY2024")
	assert.NoError(t, err, "names are unique per owner only")
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a, err := svc.Create(ctx, owner, "FY2023")
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, "FY2024")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, owner, a.ID, "FY2024")
	var dup *model.DuplicateNameError
	assert.ErrorAs(t, err, &dup)

	same, err := svc.Rename(ctx, owner, a.ID, "FY2023")
	require.NoError(t, err, "renaming to its own name is not a duplicate")
	assert.Equal(t, "FY2023", same.Name)

	renamed, err := svc.Rename(ctx, owner, a.ID, "Calendar 2023")
	require.NoError(t, err)
	got, err := svc.Get(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, got)

	_, err = svc.Rename(ctx, owner, a.ID+99, "x")
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fy, err := svc.Create(ctx, owner, "FY2024")
	require.NoError(t, err)

	status, err := svc.Toggle(ctx, owner, fy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, status)

	got, err := svc.Get(ctx, owner, fy.ID)
	require.NoError(t, err)
	assert.True(t, got.Closed())

	status, err = svc.Toggle(ctx, owner, fy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, status)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	fy, err := svc.Create(ctx, owner, "FY2024")
	require.NoError(t, err)
	require.NoError(t, st.ReplaceEntries(ctx, fy.ID, []model.Entry{{
		Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Debited: "Cash", Credited: "Capital",
		Amount: decimal.NewFromInt(10), Description: "seed",
	}}))
	_, err = svc.Toggle(ctx, owner, fy.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, fy.ID), "closed fiscal years can be deleted")

	_, err = svc.Get(ctx, owner, fy.ID)
	assert.ErrorIs(t, err, model.ErrInvalidID)
	entries, err := st.ListEntries(ctx, fy.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, svc.Delete(ctx, owner, fy.ID), model.ErrInvalidID)
}

func TestClosedOwnerRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fy, err := svc.Create(ctx, owner, "FY2024")
	require.NoError(t, err)

	closed := model.Owner{ID: owner.ID, Status: model.StatusClosed}
	_, err = svc.Create(ctx, closed, "FY2025")
	assert.ErrorIs(t, err, model.ErrAccountClosed)
	_, err = svc.Rename(ctx, closed, fy.ID, "x")
	assert.ErrorIs(t, err, model.ErrAccountClosed)
	_, err = svc.Toggle(ctx, closed, fy.ID)
	assert.ErrorIs(t, err, model.ErrAccountClosed)
	assert.ErrorIs(t, svc.Delete(ctx, closed, fy.ID), model.ErrAccountClosed)

	years, err := svc.List(ctx, closed)
	require.NoError(t, err, "reads stay available")
	assert.Len(t, years, 1)
}
