package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for journal files.
const Header = "date,ac_debited,ac_credited,amount,description"

const (
	numFields  = 5
	colDate    = 0
	colDebited = 1
	colCredit  = 2
	colAmount  = 3
	colDesc    = 4
)

// ReadDrafts reads draft entries from a journal CSV. Columns are matched by
// header name, so a missing column yields unsubmitted fields and fails
// validation rather than parsing.
func ReadDrafts(r io.Reader) ([]Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var drafts []Draft
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		drafts = append(drafts, UnmarshalDraft(index, rec))
	}
	return drafts, nil
}

// UnmarshalDraft converts a CSV record to a Draft using a header index.
func UnmarshalDraft(index map[string]int, record []string) Draft {
	get := func(name string) Field {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return Field{}
		}
		return Value(record[i])
	}
	return Draft{
		Date:        get(FieldDate),
		Debited:     get(FieldDebited),
		Credited:    get(FieldCredited),
		Amount:      get(FieldAmount),
		Description: get(FieldDescription),
	}
}

// WriteEntries writes entries as a journal CSV (including header).
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colDate] = e.Date.Format(model.DateFormat)
	row[colDebited] = e.Debited
	row[colCredit] = e.Credited
	row[colAmount] = e.Amount.String()
	row[colDesc] = e.Description
	return row
}
