package middleware

import (
    "context"
    "net/http"
    "strings"

    "finitefield.org/aire-web/internal/i18n"
)

// Locale resolves the language requested for this page load. An explicit
// `hl` query wins; otherwise Accept-Language is negotiated when negotiate is
// set, else the bundle fallback is used. Nothing is persisted, so a reload
// without `hl` starts over on the default.
func Locale(bundle *i18n.Bundle, negotiate bool) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
            lang := bundle.Fallback()
            if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("hl"))); q != "" && bundle.IsSupported(q) {
                lang = q
            } else if negotiate {
                lang = bundle.Resolve(r.Header.Get("Accept-Language"))
            }
            w.Header().Set("Content-Language", lang)
            next.ServeHTTP(w, r.WithContext(WithLang(ctx, lang)))
        })
    }
}

// Lang returns the resolved page language, or the fallback, or "en".
func Lang(r *http.Request) string {
    if v, ok := r.Context().Value(ctxKeyLang).(string); ok && v != "" {
        return v
    }
    if v, ok := r.Context().Value(ctxKeyLocaleFB).(string); ok && v != "" {
        return v
    }
    return "en"
}
