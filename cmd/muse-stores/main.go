// Package main provides the muse-stores CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
	"github.com/muse-loyalty/muse-stores/internal/config"
	"github.com/muse-loyalty/muse-stores/internal/directory"
	"github.com/muse-loyalty/muse-stores/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// dataFlag overrides the configured dataset path
var dataFlag string

// loader is the process-wide dataset loader, created on first use.
var loader *catalog.Loader

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "muse-stores",
	Short: "MUSE loyalty program store directory",
	Long: `muse-stores looks up stores in the MUSE loyalty program directory.

The directory is read from a nested JSON dataset, flattened into one record
per store, and queried in memory. List, search, filter, and inspect stores,
or summarise them by region, brand, category, and vertical.

All commands output JSON by default for easy integration with other tools.
Use --human for tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if present (for MUSE_STORES_DATA)
		if err := config.LoadDotEnv(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Path to the stores JSON dataset (default from config or $"+config.EnvDataPath+")")
	rootCmd.Version = Version
}

// dataPath returns the resolved dataset path.
func dataPath() string {
	return config.ResolveDataPath(dataFlag)
}

// getLoader returns the process-wide loader for the resolved dataset path.
func getLoader() *catalog.Loader {
	if loader == nil {
		loader = catalog.NewLoader(dataPath())
	}
	return loader
}

// mustLoadDirectory loads the dataset and returns a directory over it, exits
// on error.
func mustLoadDirectory() *directory.Directory {
	l := getLoader()
	if _, err := l.Stores(); err != nil {
		exitOnLoadError(err)
	}
	return directory.New(l)
}

// exitOnLoadError reports a dataset or query error and exits.
func exitOnLoadError(err error) {
	if errors.Is(err, catalog.ErrDataUnavailable) {
		exitWithError(ExitDataError, "%v\n\nSet the dataset path with --data, $%s, or 'muse-stores config data_path <path>'.",
			err, config.EnvDataPath)
	}
	exitWithError(ExitError, "%v", err)
}

// mustOpenIndex opens the SQLite index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenIndex(path string) *storage.DB {
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
