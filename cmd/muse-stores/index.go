package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muse-loyalty/muse-stores/internal/config"
	"github.com/muse-loyalty/muse-stores/internal/directory"
	"github.com/muse-loyalty/muse-stores/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
	addFilterFlags(indexListCmd, &indexListFilters)
	indexListCmd.Flags().IntVar(&indexLimit, "limit", 0, "Maximum results to return (0 = all)")
	indexSearchCmd.Flags().IntVar(&indexLimit, "limit", 0, "Maximum results to return (0 = all)")
	indexCmd.AddCommand(indexListCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexGetCmd)
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the SQLite query index",
	Long: `Manage an ephemeral SQLite index of the flattened stores.

The index is derived from the dataset and can be rebuilt at any time. It
enables ad-hoc SQL with 'muse-stores query' and full-text search over the
stores_fts table. The dataset stays the source of truth.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the index from the dataset",
	Args:  cobra.NoArgs,
	RunE:  runIndexBuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the index is current",
	Args:  cobra.NoArgs,
	RunE:  runIndexStatus,
}

var indexListFilters directory.Criteria
var indexLimit int

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores from the index, optionally filtered",
	Long: `List stores from the index in dataset order.

Filters behave as in 'muse-stores list'.`,
	Args: cobra.NoArgs,
	RunE: runIndexList,
}

var indexSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search over the index",
	Long: `Search the stores_fts table. Unlike 'muse-stores search', terms match
whole tokens and support FTS5 syntax such as prefix queries (gucc*).

Examples:
  muse-stores index search gucci
  muse-stores index search "dubai mall" --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexSearch,
}

var indexGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a store from the index by id or POS key",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexGet,
}

// IndexBuildResult is the response for index build.
type IndexBuildResult struct {
	Status   string `json:"status"`
	Path     string `json:"path"`
	Source   string `json:"source"`
	Stores   int    `json:"stores"`
	Skipped  int    `json:"skipped"`
	Duration string `json:"duration"`
}

// IndexStatusResult is the response for index status.
type IndexStatusResult struct {
	Path    string    `json:"path"`
	Exists  bool      `json:"exists"`
	Source  string    `json:"source,omitempty"`
	Stores  int       `json:"stores"`
	Stale   bool      `json:"stale"`
	BuiltAt time.Time `json:"built_at"`
	Bytes   int64     `json:"bytes,omitempty"`

	// OtherSource is set when the index was built from a dataset other
	// than the one currently resolved. Stale is set too.
	OtherSource bool `json:"other_source,omitempty"`
}

func indexPath() string {
	return config.ResolveIndexPath(dataPath())
}

var (
	errIndexStale       = errors.New("index is stale")
	errIndexOtherSource = errors.New("index was built from a different dataset")
)

// absPath returns path made absolute, or cleaned if that fails.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// checkIndexCurrent returns nil if db was built from the current contents of
// the dataset at dataset.
func checkIndexCurrent(db *storage.DB, dataset string) error {
	source, err := db.Meta(storage.MetaSourcePath)
	if err != nil {
		return fmt.Errorf("reading index metadata: %w", err)
	}
	if source == "" {
		return errIndexStale
	}
	if absPath(source) != absPath(dataset) {
		return fmt.Errorf("%w: built from %s, using %s", errIndexOtherSource, source, absPath(dataset))
	}

	stale, err := db.NeedsRebuild(dataset)
	if err != nil {
		return fmt.Errorf("checking index freshness: %w", err)
	}
	if stale {
		return errIndexStale
	}
	return nil
}

// mustOpenCurrentIndex opens the index and exits unless it exists and was
// built from the current contents of the resolved dataset.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenCurrentIndex() *storage.DB {
	path := indexPath()
	if _, err := os.Stat(path); err != nil {
		exitWithError(ExitDataError, "index not found at %s\n\nRun 'muse-stores index build' to create it.", path)
	}

	db := mustOpenIndex(path)
	if err := checkIndexCurrent(db, dataPath()); err != nil {
		db.Close()
		exitWithError(ExitDataError, "%v\n\nRun 'muse-stores index build' first.", err)
	}
	return db
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	l := getLoader()
	stores, err := l.Stores()
	if err != nil {
		exitOnLoadError(err)
	}

	path := indexPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating index directory: %v", err)
	}

	if humanOutput {
		fmt.Printf("Indexing %d stores from %s...\n", len(stores), l.Path())
	}

	db := mustOpenIndex(path)
	defer db.Close()

	source := absPath(l.Path())
	count, err := db.RebuildFromStores(stores, source)
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}

	result := IndexBuildResult{
		Status:   "built",
		Path:     path,
		Source:   source,
		Stores:   count,
		Skipped:  len(stores) - count,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}

	if humanOutput {
		fmt.Printf("Indexed %d stores into %s in %s\n", count, path, result.Duration)
		if result.Skipped > 0 {
			fmt.Printf("Skipped %d duplicate %s (run 'muse-stores check' for details)\n",
				result.Skipped, pluralize(result.Skipped, "id"))
		}
	} else {
		outputJSON(result)
	}

	return nil
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	path := indexPath()
	result := IndexStatusResult{Path: path, Stale: true}

	info, err := os.Stat(path)
	if err == nil {
		result.Exists = true
		result.Bytes = info.Size()

		db := mustOpenIndex(path)
		defer db.Close()

		if result.Stores, err = db.Count(); err != nil {
			exitWithError(ExitDataError, "reading index %s: %v", path, err)
		}
		if result.BuiltAt, err = db.BuiltAt(); err != nil {
			exitWithError(ExitDataError, "reading index %s: %v", path, err)
		}
		if result.Source, err = db.Meta(storage.MetaSourcePath); err != nil {
			exitWithError(ExitDataError, "reading index %s: %v", path, err)
		}

		switch err := checkIndexCurrent(db, dataPath()); {
		case err == nil:
			result.Stale = false
		case errors.Is(err, errIndexOtherSource):
			result.OtherSource = true
		case !errors.Is(err, errIndexStale):
			exitWithError(ExitDataError, "%v", err)
		}
	}

	if !humanOutput {
		outputJSON(result)
		return nil
	}

	if !result.Exists {
		fmt.Printf("No index at %s\n\nRun 'muse-stores index build' to create it.\n", path)
		return nil
	}

	state := "current"
	switch {
	case result.OtherSource:
		state = fmt.Sprintf("built from another dataset, not %s (run 'muse-stores index build')", absPath(dataPath()))
	case result.Stale:
		state = "stale (run 'muse-stores index build')"
	}
	fmt.Printf("Index:   %s (%s)\n", path, humanize.Bytes(uint64(result.Bytes)))
	fmt.Printf("Source:  %s\n", result.Source)
	fmt.Printf("Stores:  %d\n", result.Stores)
	if !result.BuiltAt.IsZero() {
		fmt.Printf("Built:   %s\n", humanize.Time(result.BuiltAt))
	}
	fmt.Printf("Status:  %s\n", state)

	return nil
}

func runIndexList(cmd *cobra.Command, args []string) error {
	db := mustOpenCurrentIndex()
	defer db.Close()

	limit := config.ResolveLimit(indexLimit, cmd.Flags().Changed("limit"))
	stores, err := db.List(indexListFilters, limit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("\n  Found %d %s\n\n", len(stores), pluralize(len(stores), "store"))
		writeTable(os.Stdout, stores, listColumns)
		fmt.Println()
	} else {
		outputJSON(stores)
	}
	return nil
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db := mustOpenCurrentIndex()
	defer db.Close()

	limit := config.ResolveLimit(indexLimit, cmd.Flags().Changed("limit"))
	stores, err := db.Search(query, limit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("\n  Found %d %s matching %q\n\n", len(stores), pluralize(len(stores), "store"), query)
		writeTable(os.Stdout, stores, searchColumns)
		fmt.Println()
	} else {
		outputJSON(stores)
	}
	return nil
}

func runIndexGet(cmd *cobra.Command, args []string) error {
	db := mustOpenCurrentIndex()
	defer db.Close()

	store, err := db.GetByID(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if store == nil {
		exitWithError(ExitNotFound, "store not found: %s", args[0])
	}

	if humanOutput {
		writeStoreDetail(os.Stdout, *store)
	} else {
		outputJSON(store)
	}
	return nil
}
