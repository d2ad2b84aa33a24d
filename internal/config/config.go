// Package config resolves where the store dataset and its query index live.
//
// Settings come from, in order of precedence: command-line flags, environment
// variables (optionally loaded from a .env file), the global YAML config file
// and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/muse-stores/config.yml.
type Config struct {
	DataPath     string `yaml:"data_path,omitempty"`     // Path to the nested stores JSON file
	IndexPath    string `yaml:"index_path,omitempty"`    // Path to the SQLite query index
	DefaultLimit int    `yaml:"default_limit,omitempty"` // Result limit when --limit is not given (0 = all)
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "muse-stores"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultDataPath is used when no data path is configured.
	DefaultDataPath = "data/stores.json"
	// IndexDir holds the query index next to the dataset.
	IndexDir = ".muse-stores"
	// IndexFile is the SQLite index file name.
	IndexFile = "stores.db"

	// EnvDataPath overrides data_path.
	EnvDataPath = "MUSE_STORES_DATA"
	// EnvIndexPath overrides index_path.
	EnvIndexPath = "MUSE_STORES_INDEX"
)

// Keys lists the settable configuration keys.
var Keys = []string{"data_path", "index_path", "default_limit"}

// ErrUnknownKey is returned for configuration keys not in Keys.
var ErrUnknownKey = errors.New("unknown configuration key")

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/muse-stores/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the config file.
// Returns an empty config (not an error) if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DataPath = ExpandPath(cfg.DataPath)
	cfg.IndexPath = ExpandPath(cfg.IndexPath)

	configCache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	configCache = nil
}

// Save writes the config file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	configCache = c
	return nil
}

// Get returns the value of key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "data_path":
		return c.DataPath, nil
	case "index_path":
		return c.IndexPath, nil
	case "default_limit":
		return strconv.Itoa(c.DefaultLimit), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set validates value and assigns it to key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "data_path":
		path := ExpandPath(value)
		if err := ValidateDataPath(path); err != nil {
			return err
		}
		c.DataPath = path
	case "index_path":
		c.IndexPath = ExpandPath(value)
	case "default_limit":
		n, err := ParseLimit(value)
		if err != nil {
			return err
		}
		c.DefaultLimit = n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// LoadDotEnv loads environment variables from the given .env files, or from
// ./.env when none are given. Variables already set are left alone and a
// missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var existing []string
	for _, f := range filenames {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// GetConfigValue returns the environment variable envKey if set, otherwise
// configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// ResolveDataPath returns the dataset path: flagValue if non-empty, then
// MUSE_STORES_DATA, then data_path from the config file, then
// DefaultDataPath.
func ResolveDataPath(flagValue string) string {
	if flagValue != "" {
		return ExpandPath(flagValue)
	}

	cfg, err := Load()
	if err != nil {
		cfg = &Config{}
	}

	if path := GetConfigValue(EnvDataPath, cfg.DataPath); path != "" {
		return ExpandPath(path)
	}
	return DefaultDataPath
}

// ResolveIndexPath returns the index path: MUSE_STORES_INDEX, then
// index_path from the config file, then .muse-stores/stores.db next to the
// dataset.
func ResolveIndexPath(dataPath string) string {
	cfg, err := Load()
	if err != nil {
		cfg = &Config{}
	}

	if path := GetConfigValue(EnvIndexPath, cfg.IndexPath); path != "" {
		return ExpandPath(path)
	}
	return filepath.Join(filepath.Dir(dataPath), IndexDir, IndexFile)
}

// ResolveLimit returns flagValue when the flag was given, otherwise
// default_limit from the config file.
func ResolveLimit(flagValue int, flagSet bool) int {
	if flagSet {
		return flagValue
	}
	cfg, err := Load()
	if err != nil {
		return 0
	}
	return cfg.DefaultLimit
}

// ValidateDataPath checks that path exists and is a regular file.
func ValidateDataPath(path string) error {
	if path == "" {
		return nil // Empty is allowed (falls back to the default)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// ParseLimit parses a non-negative result limit.
func ParseLimit(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q: must be an integer", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid limit %d: must not be negative", n)
	}
	return n, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
