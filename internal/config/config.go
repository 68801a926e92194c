package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment overrides. A double underscore
// nests: AIRE_WEB_ANALYTICS__GA4_MEASUREMENT_ID -> analytics.ga4_measurement_id.
const EnvPrefix = "AIRE_WEB_"

// Config is the runtime configuration for the story service.
type Config struct {
	HTTPAddr          string        `koanf:"http_addr"`
	Env               string        `koanf:"env"`
	Dev               bool          `koanf:"dev"`
	TemplatesDir      string        `koanf:"templates_dir"`
	PublicDir         string        `koanf:"public_dir"`
	LocalesDir        string        `koanf:"locales_dir"`
	DefaultLocale     string        `koanf:"default_locale"`
	SupportedLocales  []string      `koanf:"supported_locales"`
	NegotiateLocale   bool          `koanf:"negotiate_locale"`
	TrackerOffset     float64       `koanf:"tracker_offset"`
	SessionTTL        time.Duration `koanf:"session_ttl"`
	SessionSigningKey string        `koanf:"session_signing_key"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	LogLevel          string        `koanf:"log_level"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	BaseURL           string        `koanf:"base_url"`
	Analytics         Analytics     `koanf:"analytics"`
}

// Analytics holds client instrumentation settings surfaced to templates.
type Analytics struct {
	GA4MeasurementID string `koanf:"ga4_measurement_id"`
	GTMContainerID   string `koanf:"gtm_container_id"`
	Debug            bool   `koanf:"debug"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Env:              "dev",
		TemplatesDir:     "templates",
		PublicDir:        "public",
		LocalesDir:       "locales",
		DefaultLocale:    "en",
		SupportedLocales: []string{"en", "es"},
		TrackerOffset:    0.5,
		SessionTTL:       30 * time.Minute,
		ShutdownTimeout:  10 * time.Second,
		LogLevel:         "info",
		CORSOrigins:      []string{"*"},
	}
}

// Load reads the YAML file at path when it exists, then overlays
// AIRE_WEB_* environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.HTTPAddr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		cfg.HTTPAddr = ":" + port
	}
	cfg.DefaultLocale = strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))
	for i, l := range cfg.SupportedLocales {
		cfg.SupportedLocales[i] = strings.ToLower(strings.TrimSpace(l))
	}
	return cfg, nil
}

// IsProd reports whether the service runs in production.
func (c *Config) IsProd() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if len(c.SupportedLocales) == 0 {
		errs = append(errs, errors.New("supported_locales must not be empty"))
	}
	found := false
	for _, l := range c.SupportedLocales {
		if l == c.DefaultLocale {
			found = true
		}
	}
	if !found {
		errs = append(errs, fmt.Errorf("default_locale %q is not in supported_locales", c.DefaultLocale))
	}
	if c.TrackerOffset < 0 || c.TrackerOffset > 1 {
		errs = append(errs, fmt.Errorf("tracker_offset %v must be within [0, 1]", c.TrackerOffset))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.IsProd() && c.SessionSigningKey == "" {
		errs = append(errs, errors.New("session_signing_key is required in production"))
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("base_url %q must be absolute", c.BaseURL))
	}
	return errors.Join(errs...)
}
