package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Batch field names, as submitted by clients.
const (
	FieldDate        = "date"
	FieldDebited     = "ac_debited"
	FieldCredited    = "ac_credited"
	FieldAmount      = "amount"
	FieldDescription = "description"
)

// ValidateBatch checks drafts in index order and converts them to entries.
// It stops at the first bad entry and returns a *model.FieldError naming the
// field and the 0-based index. Values are trimmed before checking.
func ValidateBatch(drafts []Draft) ([]model.Entry, error) {
	entries := make([]model.Entry, 0, len(drafts))
	for i, d := range drafts {
		e, err := validateDraft(d)
		if err != nil {
			err.Index = i
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func validateDraft(d Draft) (model.Entry, *model.FieldError) {
	fields := d.fields()

	// Presence is checked for every field before emptiness.
	for _, f := range fields {
		if !f.field.Set {
			return model.Entry{}, &model.FieldError{Field: f.name, Reason: model.ReasonMissing}
		}
	}
	for _, f := range fields {
		if trimmed(f.field) == "" {
			return model.Entry{}, &model.FieldError{Field: f.name, Reason: model.ReasonEmpty}
		}
	}

	amount, err := decimal.NewFromString(trimmed(d.Amount))
	if err != nil || amount.Sign() <= 0 {
		return model.Entry{}, &model.FieldError{Field: FieldAmount, Reason: model.ReasonInvalidAmount}
	}

	date, err := time.Parse(model.DateFormat, trimmed(d.Date))
	if err != nil {
		return model.Entry{}, &model.FieldError{Field: FieldDate, Reason: model.ReasonInvalidDate}
	}

	return model.Entry{
		Date:        date,
		Debited:     trimmed(d.Debited),
		Credited:    trimmed(d.Credited),
		Amount:      amount,
		Description: trimmed(d.Description),
	}, nil
}
