// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the calculus service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"calculus/internal/api/handler/v1handler"
	"calculus/internal/config"
	"calculus/pkg/controller"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// v1Spec is the embedded OpenAPI document of the v1 API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

const (
	// SpecPath serves the embedded OpenAPI document.
	SpecPath = "/specs/v1.yaml"
	// DocsPath serves the Swagger UI.
	DocsPath = "/v1/docs/"

	instrumentationName = "calculus/internal/api"
	timeoutBody         = `{"code":"TIMEOUT","message":"request timed out"}`
)

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
type Options struct {
	// SecHandlerOptions configures bearer authentication of calculation endpoints.
	SecHandlerOptions *v1handler.SecHandlerOptions
	// HandlerOptions configures the v1 handlers.
	HandlerOptions v1handler.Options

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// JobsUIPath is where Deps.JobsUI is mounted.
	JobsUIPath string
	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),
		HandlerOptions:    v1handler.NewOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		JobsUIPath:        cfg.HTTP.JobsUIPath,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
	}
}

type Deps struct {
	v1handler.Deps

	// JobsUI is the job queue dashboard. It is not mounted when nil.
	JobsUI http.Handler
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - OpenTelemetry request metrics exported through Prometheus
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes
// - the job queue dashboard when one is given
// - pprof endpoints for profiling
// It also wraps the mux with tracing, CORS and logging middlewares and applies a request timeout.
//
// The otel exporter registers with the default Prometheus registerer, so
// NewServer can only be called once per process.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	// v1 specs file
	mux.HandleFunc("GET "+SpecPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle(DocsPath, v5emb.New(
		"Calculus Service",
		SpecPath,
		DocsPath,
	))

	// v1 api
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not create sec handler: %w", err)
	}
	mux.Handle("/v1/", v1handler.New(deps.Deps, opts.HandlerOptions).Routes(secHandler))

	// jobs dashboard
	if deps.JobsUI != nil && opts.JobsUIPath != "" {
		mux.Handle(strings.TrimSuffix(opts.JobsUIPath, "/")+"/", deps.JobsUI)
	}

	// pprof
	mux.Handle(controller.PprofPrefix, controller.PprofMux())

	// request metrics
	handler, err := controller.WithMetrics(mux, mp.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("could not create metrics middleware: %w", err)
	}

	// tracing
	handler = controller.WithTracing(handler, otel.Tracer(instrumentationName))

	// cors
	handler = controller.WithCORS(handler, opts.CORSOrigins...)

	// logger
	handler = controller.WithLogger(handler)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           http.TimeoutHandler(handler, opts.RequestTimeout, timeoutBody),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
