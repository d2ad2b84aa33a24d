package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
)

// Export formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSON, FormatJSONL, FormatCSV}

// Write writes stores to w in the named format.
func Write(w io.Writer, format string, stores []catalog.Store) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, stores)
	case FormatJSONL:
		return WriteJSONL(w, stores)
	case FormatCSV:
		return WriteCSV(w, stores)
	}
	return fmt.Errorf("unknown format %q (valid: %v)", format, Formats)
}

// WriteJSON writes stores as an indented JSON array. A nil slice is written
// as [].
func WriteJSON(w io.Writer, stores []catalog.Store) error {
	if stores == nil {
		stores = []catalog.Store{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stores); err != nil {
		return fmt.Errorf("encoding stores: %w", err)
	}
	return nil
}

// WriteJSONL writes one JSON object per line.
func WriteJSONL(w io.Writer, stores []catalog.Store) error {
	for i, s := range stores {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encoding store %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing store %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return nil
}

// WriteCSV writes a header row of field names followed by one row per store.
func WriteCSV(w io.Writer, stores []catalog.Store) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(catalog.FieldNames); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range stores {
		if err := cw.Write(s.Fields()); err != nil {
			return fmt.Errorf("writing store %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
