package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/nikbrunner/gifpick/internal/fetch"
	"github.com/nikbrunner/gifpick/internal/giphy"
)

// APIKeyEnv overrides api_key from the config file.
const APIKeyEnv = "GIPHY_API_KEY"

const (
	defaultConfigPath     = "~/.config/gifpick/config.toml"
	defaultRating         = "g"
	defaultLang           = "en"
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "info"
)

// Config holds application configuration.
type Config struct {
	APIKey           string
	BaseURL          string
	Rating           string
	Lang             string
	PageSize         int
	RecommendedCount int
	Debounce         time.Duration
	RequestTimeout   time.Duration
	LogLevel         string
	LogFile          string
}

// fileConfig mirrors the TOML file. Durations are strings like "500ms".
type fileConfig struct {
	APIKey           string `toml:"api_key"`
	BaseURL          string `toml:"base_url"`
	Rating           string `toml:"rating"`
	Lang             string `toml:"lang"`
	PageSize         int    `toml:"page_size"`
	RecommendedCount int    `toml:"recommended_count"`
	Debounce         string `toml:"debounce"`
	RequestTimeout   string `toml:"request_timeout"`
	LogLevel         string `toml:"log_level"`
	LogFile          string `toml:"log_file"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		BaseURL:          giphy.DefaultBaseURL,
		Rating:           defaultRating,
		Lang:             defaultLang,
		PageSize:         fetch.DefaultPageSize,
		RecommendedCount: fetch.DefaultRecommendedCount,
		Debounce:         fetch.DefaultDebounce,
		RequestTimeout:   defaultRequestTimeout,
		LogLevel:         defaultLogLevel,
	}
}

// Load reads the config at path (or the default path when empty), falling
// back to defaults when the file is missing. GIPHY_API_KEY overrides the
// file's api_key.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := cfg.apply(data); err != nil {
			return Config{}, err
		}
	}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		cfg.APIKey = key
	}
	return cfg, nil
}

// apply overlays non-empty values from a TOML document onto c.
func (c *Config) apply(data []byte) error {
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.APIKey, raw.APIKey)
	setString(&c.BaseURL, raw.BaseURL)
	setString(&c.Rating, raw.Rating)
	setString(&c.Lang, raw.Lang)
	setString(&c.LogLevel, raw.LogLevel)
	if file := strings.TrimSpace(raw.LogFile); file != "" {
		c.LogFile = mustExpand(file)
	}

	if raw.PageSize < 0 {
		return fmt.Errorf("parse config: page_size must be positive, got %d", raw.PageSize)
	}
	if raw.PageSize > 0 {
		c.PageSize = raw.PageSize
	}
	if raw.RecommendedCount < 0 {
		return fmt.Errorf("parse config: recommended_count must be positive, got %d", raw.RecommendedCount)
	}
	if raw.RecommendedCount > 0 {
		c.RecommendedCount = raw.RecommendedCount
	}

	if err := setDuration(&c.Debounce, raw.Debounce, "debounce"); err != nil {
		return err
	}
	return setDuration(&c.RequestTimeout, raw.RequestTimeout, "request_timeout")
}

// DefaultPath returns the expanded default config path.
func DefaultPath() (string, error) {
	return expandPath(defaultConfigPath)
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, value, field string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("parse config: %s must not be negative", field)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
