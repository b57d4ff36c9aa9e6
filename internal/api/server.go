// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the fraud risk service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"fraudrisk/internal/api/handler/v1handler"
	"fraudrisk/internal/config"
	"fraudrisk/pkg/controller"
	"fraudrisk/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// v1Spec is the OpenAPI document of the v1 API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds the HTTP server settings, usually built by NewOptions.
type Options struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// RequestTimeout wraps the router in http.TimeoutHandler; zero disables it.
	RequestTimeout time.Duration
	// MaxBodyBytes bounds request bodies of the v1 API.
	MaxBodyBytes int64
	MetricsPath  string
	CORSOrigins  []string
	// Registerer receives the OpenTelemetry exporter's collectors. Nil means
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
	}
}

// Deps are the services behind the routes. Training routes are mounted only
// when Trainer is set.
type Deps struct {
	v1handler.Deps
}

// timeoutBody matches the error bodies written by v1handler.
var timeoutBody = fmt.Sprintf(`{"error":"request timed out","code":%q}`, serrors.ErrTimeout.Error())

func requestMetrics(registerer prometheus.Registerer) (func(http.Handler) http.Handler, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	withMetrics, err := controller.WithMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)))
	if err != nil {
		return nil, fmt.Errorf("could not create metrics middleware: %w", err)
	}

	return withMetrics, nil
}

func docs(r chi.Router) {
	r.Get("/specs/v1.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	r.Handle("/v1/docs/*", v5emb.New("Fraud Risk Service", "/specs/v1.yaml", "/v1/docs/"))
}

// NewServer builds the HTTP server. Besides the scoring API it serves
// Prometheus metrics, the OpenAPI document with its viewer and pprof. Every
// route goes through the CORS, access log and request metrics middlewares.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	withMetrics, err := requestMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(controller.WithCORS(opts.CORSOrigins), controller.WithLogger, withMetrics)

	r.Handle(opts.MetricsPath, promhttp.Handler())
	docs(r)
	r.Handle("/debug/pprof/*", controller.PprofMux())

	deps.MaxBodyBytes = opts.MaxBodyBytes
	h := v1handler.New(deps.Deps)
	r.Get("/healthz", h.Healthz)
	// unversioned alias kept for existing clients
	r.Post("/predict", h.Predict)
	r.Mount("/v1", h.Routes())

	var handler http.Handler = r
	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(r, opts.RequestTimeout, timeoutBody)
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
