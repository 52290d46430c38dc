package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:7433"
	DefaultLogLevel   = "info"
	DefaultDataDir    = ".inkwell"
	DefaultDBFileName = "inkwell.db"
	DefaultAssetsDir  = "assets"

	DefaultAssetMaxImageBytes int64 = 32 * 1024 * 1024

	configDirEnvKey = "INKWELL_CONFIG_DIR"
	apiURLEnvKey    = "INKWELL_API_URL"
	dbPathEnvKey    = "INKWELL_DB"
	assetDirEnvKey  = "INKWELL_ASSET_DIR"
	logLevelEnvKey  = "INKWELL_LOG_LEVEL"
)

// AssetConfig defines runtime configuration for image asset handling.
type AssetConfig struct {
	MaxImageBytes int64 `toml:"max_image_bytes"`
}

// Config defines runtime configuration for inkwell.
type Config struct {
	APIURL   string      `toml:"api_url"`
	DBPath   string      `toml:"db_path"`
	AssetDir string      `toml:"asset_dir"`
	LogLevel string      `toml:"log_level"`
	Assets   AssetConfig `toml:"assets"`
}

// Default returns default configuration values. Path defaults resolve
// later, in Load, against the user's home directory.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Assets: AssetConfig{
			MaxImageBytes: DefaultAssetMaxImageBytes,
		},
	}
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"asset_dir",
	"log_level",
	"assets.max_image_bytes",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "asset_dir":
		return c.AssetDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "assets.max_image_bytes":
		return strconv.FormatInt(c.Assets.MaxImageBytes, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Path returns the config file path, honoring the directory override.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, ".inkwell.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".inkwell.toml"), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if loadErr := loadFileIfExists(path, &cfg); loadErr != nil {
			return nil, loadErr
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if assetDir := os.Getenv(assetDirEnvKey); assetDir != "" {
		cfg.AssetDir = assetDir
	}
	if level := os.Getenv(logLevelEnvKey); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.resolvePathDefaults(); err != nil {
		return nil, err
	}
	if cfg.Assets.MaxImageBytes <= 0 {
		cfg.Assets.MaxImageBytes = DefaultAssetMaxImageBytes
	}

	return &cfg, nil
}

func (c *Config) resolvePathDefaults() error {
	if c.DBPath != "" && c.AssetDir != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dataDir := filepath.Join(home, DefaultDataDir)
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dataDir, DefaultDBFileName)
	}
	if c.AssetDir == "" {
		c.AssetDir = filepath.Join(dataDir, DefaultAssetsDir)
	}
	return nil
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "assets.max_image_bytes":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
