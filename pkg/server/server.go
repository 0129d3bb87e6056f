// Package server exposes a router over HTTP.
package server

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/routing"
)

type Config struct {
	Addr string
	// requests per second over all routes, 0 disables the limit
	RateLimit float64
	Burst     int
	Logger    *logging.Logger
}

func DefaultConfig() Config {
	return Config{
		Addr:      ":8081",
		RateLimit: 50,
		Burst:     100,
		Logger:    logging.Noop(),
	}
}

// NewHandler wires the api routes and the metrics endpoint
func NewHandler(router *routing.Router, config Config) http.Handler {
	if config.Logger == nil {
		config.Logger = logging.Noop()
	}
	metrics := NewMetrics()
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), max(config.Burst, 1))
	}
	mw := NewMiddleware(limiter, metrics, config.Logger.WithComponent("server"))

	controller := NewDefaultApiController(NewDefaultApiService(router, metrics))
	r := NewRouter(mw.Wrap, controller)
	r.Methods(http.MethodGet).Path("/metrics").Name("Metrics").Handler(metrics.Handler())
	return r
}

// New creates the http server, start it with ListenAndServe
func New(router *routing.Router, config Config) *http.Server {
	return &http.Server{
		Addr:              config.Addr,
		Handler:           NewHandler(router, config),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
