package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
	"github.com/muse-loyalty/muse-stores/internal/directory"
)

// Column widths for human tables.
const (
	IDColumnWidth       = 10
	NameColumnWidth     = 50
	RegionColumnWidth   = 22
	CityColumnWidth     = 15
	CategoryColumnWidth = 12
	BrandColumnWidth    = 20
	MaxColumnWidth      = 40 // Cap when a column sets no width

	CountLabelWidth = 30 // Label column in count listings
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// column describes one column of a store table.
type column struct {
	label    string
	maxWidth int
	value    func(catalog.Store) string
}

var (
	idColumn       = column{"ID", IDColumnWidth, func(s catalog.Store) string { return s.ID }}
	nameColumn     = column{"Name", NameColumnWidth, func(s catalog.Store) string { return s.Name }}
	regionColumn   = column{"Region", RegionColumnWidth, func(s catalog.Store) string { return s.Region }}
	cityColumn     = column{"City", CityColumnWidth, func(s catalog.Store) string { return s.City }}
	categoryColumn = column{"Category", CategoryColumnWidth, func(s catalog.Store) string { return s.StoreCategory }}
	brandColumn    = column{"Brand", BrandColumnWidth, func(s catalog.Store) string { return s.SponsorName }}
)

// listColumns are shown by list and export previews.
var listColumns = []column{idColumn, nameColumn, regionColumn, cityColumn, categoryColumn}

// searchColumns are shown by search.
var searchColumns = []column{idColumn, nameColumn, regionColumn, brandColumn}

// writeTable writes stores as an indented, padded table.
func writeTable(w io.Writer, stores []catalog.Store, cols []column) {
	if len(stores) == 0 {
		fmt.Fprintln(w, "  No results found.")
		return
	}

	widths := make([]int, len(cols))
	for i, col := range cols {
		width := utf8.RuneCountInString(col.label)
		for _, s := range stores {
			if n := utf8.RuneCountInString(col.value(s)); n > width {
				width = n
			}
		}
		maxWidth := col.maxWidth
		if maxWidth == 0 {
			maxWidth = MaxColumnWidth
		}
		widths[i] = min(width+2, maxWidth)
	}

	header := make([]string, len(cols))
	separator := make([]string, len(cols))
	for i, col := range cols {
		header[i] = padRight(col.label, widths[i])
		separator[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(header, "  "), " "))
	fmt.Fprintf(w, "  %s\n", strings.Join(separator, "  "))

	for _, s := range stores {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = padRight(truncateString(col.value(s), widths[i]), widths[i])
		}
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(row, "  "), " "))
	}
}

// writeStoreDetail writes every field of a store, one per line.
func writeStoreDetail(w io.Writer, s catalog.Store) {
	fields := []struct {
		label string
		value string
	}{
		{"Store ID", s.ID},
		{"POS Key", s.POSKey},
		{"Name", s.Name},
		{"Region", s.Region},
		{"City", s.City},
		{"Address", s.Address},
		{"Timezone", s.Timezone},
		{"Email", s.Email},
		{"Brand", s.SponsorName},
		{"Organization", s.OrgName},
		{"Company", s.CompanyName},
		{"Vertical", s.Vertical},
		{"Category", s.StoreCategory},
		{"Business Unit", s.BUName},
		{"District", s.DistrictName},
		{"Mall", s.Mall},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "  %-15s %s\n", f.label+":", f.value)
	}
}

// writeCounts writes one "value  count" line per entry. Empty values are
// shown as (none).
func writeCounts(w io.Writer, counts []directory.Count, suffix string) {
	for _, c := range counts {
		label := c.Value
		if label == "" {
			label = "(none)"
		}
		fmt.Fprintf(w, "    %s %d%s\n", padRight(label, CountLabelWidth), c.Stores, suffix)
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// padRight pads a string with spaces on the right to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// formatIDList formats a list of IDs as a comma-separated string.
func formatIDList(ids []string) string {
	return strings.Join(ids, ", ")
}

// pluralize returns noun with an "s" unless n is 1.
func pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
