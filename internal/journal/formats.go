package journal

import (
	"io"
	"path/filepath"
	"strings"
)

// Decoder reads a batch of draft entries in one file format.
type Decoder interface {
	Decode(r io.Reader) ([]Draft, error)
	Format() string
}

// CSVDecoder reads batches written with Header.
type CSVDecoder struct{}

// Format returns the decoder name.
func (CSVDecoder) Format() string { return "csv" }

// Decode reads a journal CSV.
func (CSVDecoder) Decode(r io.Reader) ([]Draft, error) { return ReadDrafts(r) }

// JSONDecoder reads a JSON array of entry objects.
type JSONDecoder struct{}

// Format returns the decoder name.
func (JSONDecoder) Format() string { return "json" }

// Decode reads a journal JSON array.
func (JSONDecoder) Decode(r io.Reader) ([]Draft, error) { return DecodeDrafts(r) }

// Formats holds batch decoders by format name.
type Formats struct {
	decoders map[string]Decoder
	fallback Decoder
}

// NewFormats creates a registry that uses fallback for unknown formats.
func NewFormats(fallback Decoder) *Formats {
	f := &Formats{decoders: make(map[string]Decoder), fallback: fallback}
	f.Register(fallback)
	return f
}

// Register adds a decoder. Panics on duplicate format.
func (f *Formats) Register(d Decoder) {
	key := strings.ToLower(d.Format())
	if _, ok := f.decoders[key]; ok {
		panic("duplicate batch format: " + key)
	}
	f.decoders[key] = d
}

// Get returns the decoder for format, or nil.
func (f *Formats) Get(format string) Decoder {
	return f.decoders[strings.ToLower(format)]
}

// ForPath picks a decoder from the file extension of path.
func (f *Formats) ForPath(path string) Decoder {
	if d := f.Get(strings.TrimPrefix(filepath.Ext(path), ".")); d != nil {
		return d
	}
	return f.fallback
}

// DefaultFormats returns a registry with CSV (the fallback) and JSON.
func DefaultFormats() *Formats {
	f := NewFormats(CSVDecoder{})
	f.Register(JSONDecoder{})
	return f
}
