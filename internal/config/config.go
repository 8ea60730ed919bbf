package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the banner service reads from the environment.
type Config struct {
	ProviderURL      string
	ProviderEmail    string
	ProviderPassword string

	// AssetPaths is the ordered list of base directories searched for theme
	// assets. Earlier entries win.
	AssetPaths []string

	HTTPAddr     string
	LogLevel     string
	LogFormat    string
	DefaultTheme string
	FetchTimeout time.Duration
	ProviderRPS  int

	// DiscordToken is only required by the bot binary.
	DiscordToken string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ProviderURL:      os.Getenv("BANNER_PROVIDER_URL"),
		ProviderEmail:    os.Getenv("BANNER_PROVIDER_EMAIL"),
		ProviderPassword: os.Getenv("BANNER_PROVIDER_PASSWORD"),
		HTTPAddr:         os.Getenv("BANNER_HTTP_ADDR"),
		LogLevel:         os.Getenv("BANNER_LOG_LEVEL"),
		LogFormat:        os.Getenv("BANNER_LOG_FORMAT"),
		DefaultTheme:     os.Getenv("BANNER_DEFAULT_THEME"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
	}

	if paths := os.Getenv("BANNER_ASSET_PATHS"); paths != "" {
		for _, p := range strings.Split(paths, string(os.PathListSeparator)) {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.AssetPaths = append(cfg.AssetPaths, p)
			}
		}
	}

	if v := os.Getenv("BANNER_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if v := os.Getenv("BANNER_PROVIDER_RPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ProviderRPS = n
		}
	}

	cfg.Defaults()
	return cfg
}

func (c *Config) Defaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = "default"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 8 * time.Second
	}
	if c.ProviderRPS <= 0 {
		c.ProviderRPS = 5
	}
	if len(c.AssetPaths) == 0 {
		c.AssetPaths = []string{filepath.Join(".", "assets")}
	}
}

// Validate reports missing mandatory configuration. The server refuses to
// start on error rather than failing on the first request.
func (c *Config) Validate() error {
	var errs []string
	if c.ProviderURL == "" {
		errs = append(errs, "BANNER_PROVIDER_URL must be set")
	}
	if c.ProviderEmail == "" || c.ProviderPassword == "" {
		errs = append(errs, "BANNER_PROVIDER_EMAIL and BANNER_PROVIDER_PASSWORD must be set")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
