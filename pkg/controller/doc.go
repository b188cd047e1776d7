// Package controller contains HTTP middlewares and helper handlers used by
// the calculus API server.
//
// Middlewares:
//   - WithCORS admits configured browser origins and answers preflight
//     requests.
//   - WithLogger attaches a request ID and a request-scoped logger, then
//     writes an access log.
//   - WithTracing starts a server span per request.
//   - WithMetrics records request counts and latencies per route.
//
// PprofMux serves the net/http/pprof handlers under a path prefix.
package controller
