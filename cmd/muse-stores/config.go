package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muse-loyalty/muse-stores/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values in ~/.config/muse-stores/config.yml.

Usage:
  muse-stores config                               # Show all config
  muse-stores config data-path                     # Get specific value
  muse-stores config data-path ~/muse/stores.json  # Set value
  muse-stores config default-limit 25

Keys:
  data_path      Path to the stores JSON dataset (must exist)
  index_path     Path to the SQLite index (default: .muse-stores/stores.db next to the dataset)
  default_limit  Result limit for list and search when --limit is not given (0 = all)

Environment variables MUSE_STORES_DATA and MUSE_STORES_INDEX override the
file, and may be set in a .env file in the working directory.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config show.
type ConfigResponse struct {
	Path         string `json:"path"`
	DataPath     string `json:"data_path"`
	IndexPath    string `json:"index_path"`
	DefaultLimit int    `json:"default_limit"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show effective config
	if len(args) == 0 {
		data := dataPath()
		resp := ConfigResponse{
			Path:         config.Path(),
			DataPath:     data,
			IndexPath:    config.ResolveIndexPath(data),
			DefaultLimit: cfg.DefaultLimit,
		}
		if humanOutput {
			fmt.Printf("config:        %s\n", resp.Path)
			fmt.Printf("data_path:     %s\n", resp.DataPath)
			fmt.Printf("index_path:    %s\n", resp.IndexPath)
			fmt.Printf("default_limit: %d\n", resp.DefaultLimit)
		} else {
			outputJSON(resp)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	if err := cfg.Set(key, args[1]); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			exitWithError(ExitError, "%v", err)
		}
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	value, _ := cfg.Get(key)
	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}

	return nil
}

// normalizeKey converts key formats (data-path, DATA_PATH) to data_path.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "-", "_")
	return key
}
