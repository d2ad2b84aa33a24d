package main

import (
	"fmt"
	"os"

	"github.com/muse-loyalty/muse-stores/internal/config"
	"github.com/muse-loyalty/muse-stores/internal/directory"
	"github.com/spf13/cobra"
)

var listFilters directory.Criteria
var listLimit int

func init() {
	addFilterFlags(listCmd, &listFilters)
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores, optionally filtered",
	Long: `List stores in dataset order, optionally filtered.

Filters are combined with AND. Region, brand, vertical, and city match
substrings; category must match exactly. Matching ignores case. Region
accepts the aliases uae, ksa, kwt, and bah.

Examples:
  muse-stores list
  muse-stores list --region UAE --human
  muse-stores list --brand GUCCI --limit 5
  muse-stores list --category FASHION --city dubai`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// addFilterFlags registers the store filter flags on cmd.
func addFilterFlags(cmd *cobra.Command, c *directory.Criteria) {
	cmd.Flags().StringVar(&c.Region, "region", "", "Filter by region (substring, aliases: uae, ksa, kwt, bah)")
	cmd.Flags().StringVar(&c.Brand, "brand", "", "Filter by brand (substring)")
	cmd.Flags().StringVar(&c.Category, "category", "", "Filter by category (exact, e.g. FASHION, BEAUTY, MULTI, LOYALTY)")
	cmd.Flags().StringVar(&c.Vertical, "vertical", "", "Filter by vertical (substring)")
	cmd.Flags().StringVar(&c.City, "city", "", "Filter by city (substring)")
}

func runList(cmd *cobra.Command, args []string) error {
	dir := mustLoadDirectory()

	stores, err := dir.Filter(listFilters)
	if err != nil {
		exitOnLoadError(err)
	}
	total := len(stores)

	limit := config.ResolveLimit(listLimit, cmd.Flags().Changed("limit"))
	stores = directory.Limit(stores, limit)

	if humanOutput {
		if len(stores) < total {
			fmt.Printf("\n  Found %d %s (showing first %d)\n\n", total, pluralize(total, "store"), len(stores))
		} else {
			fmt.Printf("\n  Found %d %s\n\n", total, pluralize(total, "store"))
		}
		writeTable(os.Stdout, stores, listColumns)
		fmt.Println()
	} else {
		outputJSON(stores)
	}

	return nil
}
