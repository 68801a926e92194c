package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/aire-web/internal/config"
	"finitefield.org/aire-web/internal/handlers"
	"finitefield.org/aire-web/internal/i18n"
	mw "finitefield.org/aire-web/internal/middleware"
	"finitefield.org/aire-web/internal/observability"
	"finitefield.org/aire-web/internal/story"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive story over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a, err := newApp(cfg, logger, reg, clockwork.NewRealClock())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// app holds everything the HTTP handlers share.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	renderer *story.Renderer
	sessions *story.Registry
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
}

func newApp(cfg *config.Config, logger *zap.Logger, reg *prometheus.Registry, clock clockwork.Clock) (*app, error) {
	bundle, err := loadBundle(cfg)
	if err != nil {
		return nil, err
	}
	i18nBundle = bundle
	content := story.Medellin()

	if missing := missingKeys(bundle, content); len(missing) > 0 {
		if cfg.Dev {
			return nil, fmt.Errorf("locale check failed:\n%s", describeMissing(missing))
		}
		for lang, keys := range missing {
			logger.Warn("locale is missing keys", zap.String("locale", lang), zap.Strings("keys", keys))
		}
	}

	if !devMode {
		tc, err := parseTemplates()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		tmplCache = tc
	}

	mw.ConfigureSessions(cfg.SessionSigningKey, cfg.IsProd())
	if cfg.SessionSigningKey == "" {
		logger.Warn("session: using ephemeral signing key; set AIRE_WEB_SESSION_SIGNING_KEY for production")
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := observability.NewMetrics(reg)
	a := &app{
		cfg:      cfg,
		logger:   logger,
		bundle:   bundle,
		renderer: story.NewRenderer(content, story.DefaultCharts(), story.NewMarkdown()),
		metrics:  m,
		gatherer: reg,
	}
	a.sessions = story.NewRegistry(story.RegistryOptions{
		Bundle:        bundle,
		DefaultLocale: cfg.DefaultLocale,
		Sections:      content.Len(),
		Offset:        cfg.TrackerOffset,
		TTL:           cfg.SessionTTL,
		Clock:         clock,
		Hooks: story.Hooks{
			OnSection: m.Section,
			OnLocale:  m.Locale,
			OnToggle:  func(c story.Category) { m.Toggle(string(c)) },
			OnLive:    m.Live,
		},
	})
	return a, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Logger(a.logger))
	r.Use(mw.Metrics(a.metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Get("/readyz", a.handleReady)
	r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets"), devMode))
	r.Handle("/assets/*", assets)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/datasets", a.handleDatasets)
		r.Get("/datasets/{name}", a.handleDataset)
	})

	// Story pages and fragments carry a visitor session and CSRF protection.
	r.Group(func(r chi.Router) {
		r.Use(mw.Session)
		r.Use(mw.Locale(a.bundle, a.cfg.NegotiateLocale))
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale(a.cfg.NegotiateLocale))

		r.Get("/", a.handlePage)
		r.Post("/story/scroll", a.handleScroll)
		r.Post("/story/sources/{category}/toggle", a.handleToggle)
		r.Post("/story/locale", a.handleLocale)
		r.Get("/story/sections/{index}", a.handleSection)
	})
	return r
}

func (a *app) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go a.sessions.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("web listening", zap.String("addr", a.cfg.HTTPAddr), zap.Bool("dev", devMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", zap.Duration("timeout", a.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *app) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := templates(); err != nil || a.bundle == nil {
		mw.WriteError(w, r, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ready")
}

// storyInput fills the page inputs shared by server and static rendering.
func (a *app) storyInput(tr story.Translator, active int, expanded story.Category) handlers.StoryInput {
	return handlers.StoryInput{
		Translator: tr,
		Renderer:   a.renderer,
		Active:     active,
		Expanded:   expanded,
		Locales:    a.bundle.Supported(),
		Fallback:   a.bundle.Fallback(),
		BaseURL:    a.cfg.BaseURL,
		Analytics:  handlers.AnalyticsFromConfig(a.cfg.Analytics),
	}
}
