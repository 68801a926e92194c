package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/aire-web/internal/config"
	"finitefield.org/aire-web/internal/i18n"
	"finitefield.org/aire-web/internal/observability"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "aire-web",
	Short: "Scroll-driven data story about air quality in Medellín",
	Long: `aire-web serves a bilingual, scroll-driven story about PM2.5 and air
quality in Medellín, and can export it as static pages.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "aire-web.yaml", "config file path")
}

// loadConfig reads and validates configuration, then applies the directory
// and dev settings to the template globals.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	templatesDir = cfg.TemplatesDir
	publicDir = cfg.PublicDir
	devMode = cfg.Dev
	return cfg, nil
}

func loadBundle(cfg *config.Config) (*i18n.Bundle, error) {
	b, err := i18n.Load(cfg.LocalesDir, cfg.DefaultLocale, cfg.SupportedLocales)
	if err != nil {
		return nil, fmt.Errorf("loading locales: %w", err)
	}
	return b, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
