// Package config resolves service settings from defaults, an optional TOML
// file, an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const EnvConfigPath = "TUBEPULSE_CONFIG"

type Config struct {
	Port           string    `toml:"port"`
	Env            string    `toml:"env"`
	AllowedOrigins []string  `toml:"allowed_origins"`
	Feed           Feed      `toml:"feed"`
	RateLimit      RateLimit `toml:"rate_limit"`
	Log            Log       `toml:"log"`
}

type Feed struct {
	BaseURL      string   `toml:"base_url"`
	UserAgent    string   `toml:"user_agent"`
	Timeout      Duration `toml:"timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// RateLimit values are requests per minute.
type RateLimit struct {
	Global int `toml:"global"`
	API    int `toml:"api"`
}

type Log struct {
	Level string `toml:"level"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Port: ":8080",
		Env:  "development",
		Feed: Feed{
			BaseURL:      "https://www.youtube.com",
			UserAgent:    "AgenticYouTubeAutomation/1.0",
			Timeout:      Duration{10 * time.Second},
			MaxBodyBytes: 5 << 20,
		},
		RateLimit: RateLimit{Global: 200, API: 100},
		Log:       Log{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case
// TUBEPULSE_CONFIG is consulted; a missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Port = v
	}
	if v := os.Getenv("ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("FEED_BASE_URL"); v != "" {
		c.Feed.BaseURL = v
	}
	if v := os.Getenv("FEED_USER_AGENT"); v != "" {
		c.Feed.UserAgent = v
	}
	if v := os.Getenv("FEED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FEED_TIMEOUT: %w", err)
		}
		c.Feed.Timeout = Duration{d}
	}
	if v := os.Getenv("FEED_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FEED_MAX_BODY_BYTES: %w", err)
		}
		c.Feed.MaxBodyBytes = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if strings.TrimSpace(c.Feed.BaseURL) == "" {
		errs = append(errs, errors.New("feed.base_url must not be empty"))
	}
	if c.Feed.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("feed.timeout must be positive"))
	}
	if c.Feed.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("feed.max_body_bytes must be positive"))
	}
	if c.RateLimit.Global <= 0 || c.RateLimit.API <= 0 {
		errs = append(errs, errors.New("rate_limit values must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// OriginAllowed reports whether a browser origin may call the API.
func (c Config) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
