package middleware

import (
    "crypto/rand"
    "encoding/hex"
    "net/http"
    "time"
)

const (
    csrfCookieName = "csrf_token"
    csrfHeaderName = "X-CSRF-Token"
)

// CSRF issues a CSRF cookie and verifies that modifying requests carry the
// session token in the X-CSRF-Token header (htmx sends it via hx-headers).
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		token := s.CSRFToken
		if token == "" {
			token = newCSRFToken()
			s.CSRFToken = token
			s.MarkDirty()
		}

		// double submit cookie
		if c, err := r.Cookie(csrfCookieName); err != nil || c.Value != token {
			_, secure := signKey()
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: false,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(24 * time.Hour),
			})
		}

        if !isSafeMethod(r.Method) {
            hdr := r.Header.Get(csrfHeaderName)
            if hdr == "" || hdr != token {
                WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
                return
            }
            if c, err := r.Cookie(csrfCookieName); err != nil || c.Value != token {
                WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
                return
            }
        }

		next.ServeHTTP(w, r)
	})
}

// CSRFToken returns the token templates embed in hx-headers.
func CSRFToken(r *http.Request) string { return GetSession(r).CSRFToken }

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
