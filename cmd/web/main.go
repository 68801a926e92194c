package main

import (
    "bytes"
    "fmt"
    "html/template"
    "io"
    "io/fs"
    "net/http"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "time"

    "finitefield.org/aire-web/internal/format"
    "finitefield.org/aire-web/internal/i18n"
)

var (
    templatesDir = "templates"
    publicDir    = "public"
    // devMode reparses templates on every request
    devMode    bool
    tmplCache  *template.Template
    i18nBundle *i18n.Bundle
)

func main() {
    if err := Execute(); err != nil {
        fmt.Fprintf(os.Stderr, "Error: %v\n", err)
        os.Exit(1)
    }
}

func parseTemplates() (*template.Template, error) {
    funcMap := template.FuncMap{
        "now":        time.Now,
        "pathEscape": url.PathEscape,
        "percent":    format.Percent,
        "number":     format.Number,
        "add":        func(a, b int) int { return a + b },
        // jsonld marks pre-marshalled JSON-LD as safe script content
        "jsonld": func(s string) template.JS { return template.JS(s) },
    }
    // Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
    var files []string
    if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            return err
        }
        if d.IsDir() {
            return nil
        }
        if strings.HasSuffix(d.Name(), ".tmpl") {
            files = append(files, path)
        }
        return nil
    }); err != nil {
        return nil, err
    }
    if len(files) == 0 {
        return nil, fmt.Errorf("no templates found under %s", templatesDir)
    }
    return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func templates() (*template.Template, error) {
    if devMode {
        return parseTemplates()
    }
    if tmplCache == nil {
        return nil, fmt.Errorf("template not initialized")
    }
    return tmplCache, nil
}

// render executes the base layout. In dev mode, templates are reparsed on each request.
func render(w http.ResponseWriter, r *http.Request, data any) {
    renderTemplate(w, r, "base", data)
}

// renderTemplate executes a named template (page or htmx fragment). Output is
// buffered so a failing template never leaves a half-written response.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
    t, err := templates()
    if err != nil {
        http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
        return
    }
    var buf bytes.Buffer
    if err := t.ExecuteTemplate(&buf, name, data); err != nil {
        http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = buf.WriteTo(w)
}

// executeTo writes the named template to out; used by the static build.
func executeTo(out io.Writer, name string, data any) error {
    t, err := templates()
    if err != nil {
        return err
    }
    return t.ExecuteTemplate(out, name, data)
}
