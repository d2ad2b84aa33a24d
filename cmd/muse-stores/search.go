package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/muse-loyalty/muse-stores/internal/config"
	"github.com/muse-loyalty/muse-stores/internal/directory"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search stores by name, region, city, brand, company, mall, or id",
	Long: `Search stores by keyword.

A store matches when its name, region, city, brand, company, mall, or id
contains the query, ignoring case. Multiple arguments are joined with spaces.

Examples:
  muse-stores search "ralph lauren"
  muse-stores search bahrain --human
  muse-stores search dubai mall --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		exitWithError(ExitError, "please provide a search query")
	}

	dir := mustLoadDirectory()

	stores, err := dir.Search(query)
	if err != nil {
		exitOnLoadError(err)
	}

	limit := config.ResolveLimit(searchLimit, cmd.Flags().Changed("limit"))
	stores = directory.Limit(stores, limit)

	if humanOutput {
		fmt.Printf("\n  Found %d %s for %q\n\n", len(stores), pluralize(len(stores), "result"), query)
		writeTable(os.Stdout, stores, searchColumns)
		fmt.Println()
	} else {
		outputJSON(stores)
	}

	return nil
}
