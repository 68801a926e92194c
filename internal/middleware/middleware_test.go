package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/aire-web/internal/i18n"
	"finitefield.org/aire-web/internal/observability"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Load("../../locales", "en", []string{"en", "es"})
	if err != nil {
		t.Fatalf("load i18n: %v", err)
	}
	return b
}

func TestSessionIssuesSignedUUIDCookie(t *testing.T) {
	ConfigureSessions("test-key", false)
	var firstID string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firstID = GetSession(r).ID
		_, _ = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(firstID); err != nil {
		t.Fatalf("expected uuid session id, got %q", firstID)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != sessionCookieName {
		t.Fatalf("expected session cookie, got %v", cookies)
	}

	// second request with the cookie keeps the id and does not rewrite it
	var secondID string
	h2 := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondID = GetSession(r).ID
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	h2.ServeHTTP(rec2, req)
	if secondID != firstID {
		t.Fatalf("session id changed: %q -> %q", firstID, secondID)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatalf("unexpected cookie rewrite")
	}
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	ConfigureSessions("test-key", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "e30.AAAA"})
	if sd, ok := readSessionCookie(req); ok || sd.ID != "" {
		t.Fatalf("tampered cookie accepted: %+v", sd)
	}
}

func TestCSRFRequiresHeaderOnPost(t *testing.T) {
	ConfigureSessions("test-key", false)
	h := Session(CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var session, csrf *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case sessionCookieName:
			session = c
		case csrfCookieName:
			csrf = c
		}
	}
	if session == nil || csrf == nil {
		t.Fatalf("expected session and csrf cookies")
	}

	post := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/story/scroll", strings.NewReader(""))
		req.AddCookie(session)
		req.AddCookie(csrf)
		if token != "" {
			req.Header.Set(csrfHeaderName, token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := post(""); code != http.StatusForbidden {
		t.Fatalf("missing token: expected 403, got %d", code)
	}
	if code := post("nope"); code != http.StatusForbidden {
		t.Fatalf("wrong token: expected 403, got %d", code)
	}
	if code := post(csrf.Value); code != http.StatusNoContent {
		t.Fatalf("valid token: expected 204, got %d", code)
	}
}

func TestLocaleResolution(t *testing.T) {
	b := testBundle(t)
	cases := []struct {
		name      string
		url       string
		accept    string
		negotiate bool
		want      string
	}{
		{"default", "/", "es-CO,es;q=0.9", false, "en"},
		{"query wins", "/?hl=ES", "", false, "es"},
		{"unsupported query", "/?hl=fr", "", false, "en"},
		{"negotiated", "/", "es-CO,es;q=0.9", true, "es"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got string
			h := Locale(b, c.negotiate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = Lang(r)
			}))
			req := httptest.NewRequest(http.MethodGet, c.url, nil)
			if c.accept != "" {
				req.Header.Set("Accept-Language", c.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if got != c.want {
				t.Fatalf("Lang = %q, want %q", got, c.want)
			}
			if cl := rec.Header().Get("Content-Language"); cl != c.want {
				t.Fatalf("Content-Language = %q, want %q", cl, c.want)
			}
		})
	}
}

func TestVaryLocaleOnlyWhenNegotiating(t *testing.T) {
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	rec := httptest.NewRecorder()
	VaryLocale(false)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if v := rec.Header().Get("Vary"); v != "" {
		t.Fatalf("unexpected Vary %q", v)
	}
	rec = httptest.NewRecorder()
	VaryLocale(true)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if v := rec.Header().Get("Vary"); v != "Accept-Language" {
		t.Fatalf("expected Vary Accept-Language, got %q", v)
	}
}

func TestAssetsETag(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "story.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := http.StripPrefix("/assets", AssetsWithCache(dir, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/story.css", nil))
	et := rec.Header().Get("ETag")
	if rec.Code != http.StatusOK || et == "" {
		t.Fatalf("expected 200 with ETag, got %d %q", rec.Code, et)
	}
	req := httptest.NewRequest(http.MethodGet, "/assets/story.css", nil)
	req.Header.Set("If-None-Match", et)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}

func TestWriteErrorJSONForHTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithHTMX(req.Context(), true))
	rec := httptest.NewRecorder()
	WriteError(rec, req, http.StatusBadRequest, "bad layout")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"bad layout"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestLoggerRecordsRoutePatternAndStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := chi.NewRouter()
	r.Use(Logger(zap.New(core)))
	r.Get("/story/sections/{index}", func(w http.ResponseWriter, r *http.Request) {
		observability.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/story/sections/3", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Message != "inside handler" {
		t.Fatalf("expected request scoped logger on context, got %q", entries[0].Message)
	}
	done := entries[1]
	if done.Level != zapcore.WarnLevel {
		t.Fatalf("expected warn for 4xx, got %s", done.Level)
	}
	fields := done.ContextMap()
	if fields["route"] != "/story/sections/{index}" {
		t.Fatalf("unexpected route field %v", fields["route"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("unexpected status field %v", fields["status"])
	}
}

func TestMetricsCountsByRoute(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/datasets/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	for _, name := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/datasets/"+name, nil))
	}
	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/datasets/{name}", http.MethodGet, "404"))
	if got != 2 {
		t.Fatalf("expected 2 requests counted under the route pattern, got %v", got)
	}
}
