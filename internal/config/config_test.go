package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, []string{"en", "es"}, cfg.SupportedLocales)
	assert.Equal(t, 0.5, cfg.TrackerOffset)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.NegotiateLocale)
	require.NoError(t, cfg.Validate())
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aire-web.yaml")
	body := "http_addr: \":7000\"\ndefault_locale: ES\ntracker_offset: 0.3\nsession_ttl: 5m\nanalytics:\n  ga4_measurement_id: G-FILE\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("AIRE_WEB_TRACKER_OFFSET", "0.7")
	t.Setenv("AIRE_WEB_ANALYTICS__GA4_MEASUREMENT_ID", "G-ENV")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "es", cfg.DefaultLocale)
	assert.Equal(t, 0.7, cfg.TrackerOffset)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "G-ENV", cfg.Analytics.GA4MeasurementID)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"offset out of range": func(c *Config) { c.TrackerOffset = 1.5 },
		"unsupported default": func(c *Config) { c.DefaultLocale = "fr" },
		"no ttl":              func(c *Config) { c.SessionTTL = 0 },
		"prod without key":    func(c *Config) { c.Env = "prod" },
		"relative base url":   func(c *Config) { c.BaseURL = "example.org" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			c.HTTPAddr = ":8080"
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
