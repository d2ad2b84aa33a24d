package main

import (
	"fmt"
	"os"

	"github.com/muse-loyalty/muse-stores/internal/directory"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(brandsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(verticalsCmd)
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions with store counts",
	Long: `List every region with the number of stores the region filter selects.

Example:
  muse-stores regions --human`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := mustLoadDirectory()
		counts, err := dir.RegionCounts()
		if err != nil {
			exitOnLoadError(err)
		}
		printCounts(counts, "region")
		return nil
	},
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List brands with store counts",
	Long: `List every brand with the number of stores the brand filter selects.

Example:
  muse-stores brands --human`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := mustLoadDirectory()
		counts, err := dir.BrandCounts()
		if err != nil {
			exitOnLoadError(err)
		}
		printCounts(counts, "brand")
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List store categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := mustLoadDirectory()
		values, err := dir.Categories()
		if err != nil {
			exitOnLoadError(err)
		}
		printValues(values, "category", "categories")
		return nil
	},
}

var verticalsCmd = &cobra.Command{
	Use:   "verticals",
	Short: "List store verticals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := mustLoadDirectory()
		values, err := dir.Verticals()
		if err != nil {
			exitOnLoadError(err)
		}
		printValues(values, "vertical", "verticals")
		return nil
	},
}

func printCounts(counts []directory.Count, noun string) {
	if !humanOutput {
		outputJSON(counts)
		return
	}

	fmt.Printf("\n  %d %s:\n\n", len(counts), pluralize(len(counts), noun))
	writeCounts(os.Stdout, counts, " stores")
	fmt.Println()
}

func printValues(values []string, singular, plural string) {
	if !humanOutput {
		outputJSON(values)
		return
	}

	noun := plural
	if len(values) == 1 {
		noun = singular
	}
	fmt.Printf("\n  %d %s:\n\n", len(values), noun)
	for _, v := range values {
		fmt.Printf("    %s\n", v)
	}
	fmt.Println()
}
