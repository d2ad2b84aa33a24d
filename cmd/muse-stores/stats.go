package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long: `Show store totals and counts by region, category, and vertical.

Example:
  muse-stores stats --human`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	dir := mustLoadDirectory()

	stats, err := dir.Stats()
	if err != nil {
		exitOnLoadError(err)
	}

	if !humanOutput {
		outputJSON(stats)
		return nil
	}

	fmt.Println()
	fmt.Printf("  Total stores:    %d\n", stats.Total)
	fmt.Printf("  Regions:         %d\n", stats.Regions)
	fmt.Printf("  Brands:          %d\n", stats.Brands)
	fmt.Printf("  Categories:      %d\n", stats.Categories)
	fmt.Printf("  Verticals:       %d\n", stats.Verticals)
	fmt.Println()
	fmt.Println("  Stores by region:")
	writeCounts(os.Stdout, stats.ByRegion, "")
	fmt.Println()
	fmt.Println("  Stores by category:")
	writeCounts(os.Stdout, stats.ByCategory, "")
	fmt.Println()
	fmt.Println("  Stores by vertical:")
	writeCounts(os.Stdout, stats.ByVertical, "")
	fmt.Println()

	return nil
}
