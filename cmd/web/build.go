package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/aire-web/internal/handlers"
	"finitefield.org/aire-web/internal/i18n"
	"finitefield.org/aire-web/internal/story"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the story as static pages, one per locale",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// static export always uses a parsed template cache
		devMode = false
		cfg.Dev = false
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		a, err := newApp(cfg, logger, nil, clockwork.NewRealClock())
		if err != nil {
			return err
		}
		files, err := a.exportStatic(buildOut)
		if err != nil {
			return err
		}
		logger.Info("static build complete", zap.String("out", buildOut), zap.Int("files", files))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "dist", "output directory")
	rootCmd.AddCommand(buildCmd)
}

// staticHref is the toggle link target for a locale's exported page.
func staticHref(lang string) string { return "/" + lang + "/" }

// exportStatic writes <out>/<lang>/index.html for every locale, the default
// locale again at <out>/index.html, and copies the public assets. It returns
// the number of files written.
func (a *app) exportStatic(out string) (int, error) {
	written := 0
	for _, lang := range a.bundle.Supported() {
		page, err := a.staticPage(i18n.NewStore(a.bundle, lang))
		if err != nil {
			return written, err
		}
		targets := []string{filepath.Join(out, lang, "index.html")}
		if lang == a.bundle.Fallback() {
			targets = append(targets, filepath.Join(out, "index.html"))
		}
		for _, t := range targets {
			if err := writeFile(t, page); err != nil {
				return written, err
			}
			written++
		}
	}
	n, err := copyTree(filepath.Join(publicDir, "assets"), filepath.Join(out, "assets"))
	return written + n, err
}

func (a *app) staticPage(tr story.Translator) ([]byte, error) {
	in := a.storyInput(tr, 0, story.CategoryNone)
	in.Static = true
	in.LocaleHref = staticHref
	var buf bytes.Buffer
	if err := executeTo(&buf, "base", handlers.BuildStoryData(in)); err != nil {
		return nil, fmt.Errorf("render %s: %w", tr.Locale(), err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// copyTree copies regular files under src into dst. A missing src is not an error.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
