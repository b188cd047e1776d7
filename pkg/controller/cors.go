package controller

import (
	"net/http"
	"slices"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, " +
		"Cache-Control, X-Request-Id"
	corsAllowMethods   = "POST, OPTIONS, GET, DELETE"
	corsExposeHeaders  = "X-Request-Id, WWW-Authenticate"
	corsAnyOrigin      = "*"
	corsPreflightCache = "600"
)

// WithCORS returns a middleware that answers cross-origin requests from the
// allowed origins and short-circuits OPTIONS preflight requests with 204 No
// Content. An allowed origin is echoed back, so "*" admits any origin while
// still permitting credentials. Requests without an Origin header pass
// through untouched.
func WithCORS(next http.Handler, allowedOrigins ...string) http.Handler {
	anyOrigin := slices.Contains(allowedOrigins, corsAnyOrigin)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")

		origin := r.Header.Get("Origin")
		if origin != "" && (anyOrigin || slices.Contains(allowedOrigins, origin)) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", corsPreflightCache)
		}

		// handle preflight requests quickly
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}
