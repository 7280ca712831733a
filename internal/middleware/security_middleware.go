package middleware

import "net/http"

// apiSecurityHeaders are set on every response. The service only returns
// JSON and metrics text, so nothing may be framed, sniffed or cached, and
// no resource may be loaded from a response rendered in a browser.
var apiSecurityHeaders = map[string]string{
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"Cache-Control":                "no-store, no-cache, must-revalidate",
	"Pragma":                       "no-cache",
	"Referrer-Policy":              "no-referrer",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Cross-Origin-Resource-Policy": "same-origin",
	"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
}

// SecurityHeaders adds apiSecurityHeaders before calling next.
//
// Distances depend on the caller's position, so Cache-Control keeps them
// out of browser and proxy caches.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range apiSecurityHeaders {
			h.Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}
