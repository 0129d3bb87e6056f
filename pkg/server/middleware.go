package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/natevvv/bestfirst/pkg/logging"
)

const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID returns the id assigned to the request, or "" outside of a request
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware wraps every api route: request id, rate limit, tracing span, metrics and an access log record
type Middleware struct {
	limiter *rate.Limiter
	metrics *Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

func NewMiddleware(limiter *rate.Limiter, metrics *Metrics, logger *logging.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer("github.com/natevvv/bestfirst/pkg/server"),
	}
}

func (m *Middleware) Wrap(name string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)

		ctx, span := m.tracer.Start(ctx, name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", name),
				attribute.String("request.id", id),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if m.limiter != nil && !m.limiter.Allow() {
			m.metrics.limited.Inc()
			code := http.StatusTooManyRequests
			EncodeJSONResponse("rate limit exceeded", &code, rec)
		} else {
			h.ServeHTTP(rec, r.WithContext(ctx))
		}

		elapsed := time.Since(started)
		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		m.metrics.ObserveRequest(name, rec.status, elapsed)
		m.logger.Info("request", "route", name, "status", rec.status, "elapsed", elapsed, "request_id", id)
	})
}
