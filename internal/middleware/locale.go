package middleware

import "net/http"

// VaryLocale sets Vary header for Accept-Language on dynamic responses when
// the locale is negotiated from it.
func VaryLocale(negotiate bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !negotiate {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r)
		})
	}
}
