package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:     "info <store-id>",
	Aliases: []string{"get"},
	Short:   "Show details for a store",
	Long: `Show every field of a single store.

The argument may be the store id or its POS key; matching is exact and
case-sensitive.

Example:
  muse-stores info R70 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	dir := mustLoadDirectory()

	id := args[0]
	store, ok, err := dir.Get(id)
	if err != nil {
		exitOnLoadError(err)
	}
	if !ok {
		exitWithError(ExitNotFound, "store %q not found", id)
	}

	if humanOutput {
		fmt.Println()
		writeStoreDetail(os.Stdout, store)
		fmt.Println()
	} else {
		outputJSON(store)
	}

	return nil
}
