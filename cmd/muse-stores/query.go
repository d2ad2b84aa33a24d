package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/muse-loyalty/muse-stores/internal/storage"
	"github.com/spf13/cobra"
)

var queryCSV bool
var queryJSONL bool

func init() {
	queryCmd.Flags().BoolVar(&queryCSV, "csv", false, "Output CSV")
	queryCmd.Flags().BoolVar(&queryJSONL, "jsonl", false, "Output JSONL")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Query the store index using SQL",
	Long: `Execute a SQL query against the SQLite index.

Tables:
  stores       one row per store (seq preserves dataset order)
  stores_fts   FTS5 table over id, name, region, city, sponsor_name,
               company_name, and mall
  _meta        index build metadata

The index must be current; run 'muse-stores index build' after the dataset
changes.

Examples:
  muse-stores query "SELECT region, COUNT(*) AS n FROM stores GROUP BY region"
  muse-stores query "SELECT id, name FROM stores WHERE id IN (SELECT id FROM stores_fts WHERE stores_fts MATCH 'gucci')" --human
  muse-stores query "SELECT * FROM stores WHERE mall LIKE '%Dubai%'" --csv`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	db := mustOpenCurrentIndex()
	defer db.Close()

	records, err := db.Query(args[0])
	if err != nil {
		exitWithError(ExitError, "SQL error: %v", err)
	}

	switch {
	case queryCSV:
		writeRecordsCSV(records)
	case queryJSONL:
		for _, record := range records {
			data, _ := json.Marshal(record)
			fmt.Println(string(data))
		}
	case humanOutput:
		writeRecordsTable(records)
	default:
		outputJSON(records)
	}

	return nil
}

// recordColumns returns the column names of the first record, sorted.
func recordColumns(records []storage.Record) []string {
	if len(records) == 0 {
		return nil
	}
	var cols []string
	for col := range records[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func writeRecordsCSV(records []storage.Record) {
	cols := recordColumns(records)
	if cols == nil {
		return
	}

	w := csv.NewWriter(os.Stdout)
	w.Write(cols)
	for _, record := range records {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = formatValue(record[col])
		}
		w.Write(row)
	}
	w.Flush()
}

func writeRecordsTable(records []storage.Record) {
	cols := recordColumns(records)
	if cols == nil {
		fmt.Println("(0 rows)")
		return
	}

	widths := make(map[string]int)
	for _, col := range cols {
		widths[col] = utf8.RuneCountInString(col)
	}
	for _, record := range records {
		for _, col := range cols {
			if n := utf8.RuneCountInString(formatValue(record[col])); n > widths[col] {
				widths[col] = min(n, MaxColumnWidth)
			}
		}
	}

	var header []string
	for _, col := range cols {
		header = append(header, padRight(strings.ToUpper(col), widths[col]))
	}
	fmt.Println(strings.Join(header, "  "))

	for _, record := range records {
		var row []string
		for _, col := range cols {
			row = append(row, padRight(truncateString(formatValue(record[col]), widths[col]), widths[col]))
		}
		fmt.Println(strings.Join(row, "  "))
	}

	fmt.Printf("(%d rows)\n", len(records))
}

// formatValue renders a SQL value for text output. NULL is empty.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
