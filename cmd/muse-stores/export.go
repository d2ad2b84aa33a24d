package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/muse-loyalty/muse-stores/internal/directory"
	"github.com/muse-loyalty/muse-stores/internal/storage"
	"github.com/spf13/cobra"
)

var exportFilters directory.Criteria
var exportFormat string
var exportOutput string

func init() {
	addFilterFlags(exportCmd, &exportFilters)
	exportCmd.Flags().StringVar(&exportFormat, "format", storage.FormatJSON, "Output format: json, jsonl, or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered stores",
	Long: `Export stores matching the given filters.

Unlike list, export ignores --human and default_limit and always writes the
full matching set in the requested format.

Examples:
  muse-stores export --category FASHION --region UAE
  muse-stores export --format csv -o stores.csv
  muse-stores export --brand gucci --format jsonl`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !slices.Contains(storage.Formats, exportFormat) {
		exitWithError(ExitError, "unknown format %q (valid: %v)", exportFormat, storage.Formats)
	}

	dir := mustLoadDirectory()

	stores, err := dir.Filter(exportFilters)
	if err != nil {
		exitOnLoadError(err)
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			exitWithError(ExitError, "creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	if err := storage.Write(w, exportFormat, stores); err != nil {
		exitWithError(ExitError, "exporting: %v", err)
	}

	if exportOutput != "" {
		if humanOutput {
			fmt.Printf("Exported %d %s to %s\n", len(stores), pluralize(len(stores), "store"), exportOutput)
		} else {
			outputJSON(StatusResponse{Status: "exported", Path: exportOutput, Count: len(stores)})
		}
	}

	return nil
}
