package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

const (
	numFields    = 4
	colAccount   = 0
	colType      = 1
	colSubtype   = 2
	colOperation = 3
)

// Header is the first row written by WriteClassifications.
var Header = []string{"account", "type", "subtype", "operation"}

// WriteClassifications writes classifications as CSV, one row per account.
func WriteClassifications(w io.Writer, classes []model.Classification) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range classes {
		if err := cw.Write(MarshalClassification(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalClassification converts a Classification to a CSV row.
func MarshalClassification(c model.Classification) []string {
	row := make([]string, numFields)
	row[colAccount] = c.Account
	row[colType] = string(c.Type)
	row[colSubtype] = string(c.Subtype)
	row[colOperation] = string(c.Operation)
	return row
}
