package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Field is one raw input value of a batch entry. Set is false when the
// caller did not submit the field at all.
type Field struct {
	Value string
	Set   bool
}

// Value returns a submitted field.
func Value(s string) Field {
	return Field{Value: s, Set: true}
}

// UnmarshalJSON accepts strings, numbers and null (submitted but empty).
func (f *Field) UnmarshalJSON(data []byte) error {
	f.Set = true
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		f.Value = ""
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &f.Value)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("field must be a string or number: %w", err)
		}
		f.Value = n.String()
	}
	return nil
}

// MarshalJSON writes the raw value; unset fields are written as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Draft is an unvalidated journal entry as submitted in a batch.
type Draft struct {
	Date        Field `json:"date"`
	Debited     Field `json:"ac_debited"`
	Credited    Field `json:"ac_credited"`
	Amount      Field `json:"amount"`
	Description Field `json:"description"`
}

// NewDraft returns a draft with every field submitted.
func NewDraft(date, debited, credited, amount, description string) Draft {
	return Draft{
		Date:        Value(date),
		Debited:     Value(debited),
		Credited:    Value(credited),
		Amount:      Value(amount),
		Description: Value(description),
	}
}

type namedField struct {
	name  string
	field Field
}

// fields lists the required fields in validation order.
func (d Draft) fields() []namedField {
	return []namedField{
		{FieldDate, d.Date},
		{FieldDebited, d.Debited},
		{FieldCredited, d.Credited},
		{FieldAmount, d.Amount},
		{FieldDescription, d.Description},
	}
}

// DecodeDrafts reads a JSON array of draft entries.
func DecodeDrafts(r io.Reader) ([]Draft, error) {
	var drafts []Draft
	dec := json.NewDecoder(r)
	if err := dec.Decode(&drafts); err != nil {
		return nil, fmt.Errorf("decoding journal JSON: %w", err)
	}
	return drafts, nil
}

func trimmed(f Field) string {
	return strings.TrimSpace(f.Value)
}
