package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/navarrastar/contact-ingest/pkg/config"
)

const serviceName = "contact-ingest"

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_ingest_submissions_total",
			Help: "Submissions handled, by outcome and response status.",
		},
		[]string{"outcome", "code"},
	)
	upstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_ingest_upstream_calls_total",
			Help: "Calls made to the systeme.io API, by step and upstream status.",
		},
		[]string{"step", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_ingest_http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, upstreamCallsTotal, httpRequestDuration)
}

// ObserveSubmission counts one handled submission.
func ObserveSubmission(outcome string, code int) {
	submissionsTotal.WithLabelValues(outcome, strconv.Itoa(code)).Inc()
}

// ObserveUpstream counts one outbound call. A zero code means the call
// failed before a response arrived.
func ObserveUpstream(step string, code int) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	upstreamCallsTotal.WithLabelValues(step, label).Inc()
}

// Middleware records request durations per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// NewHTTPClient returns the outbound client, traced with otelhttp. A zero
// timeout keeps the net/http default of none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// InitTracing installs a tracer provider for the configured exporter.
// Supported exporters: "stdout". Anything else leaves the global no-op
// provider in place.
func InitTracing(cfg *config.Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg.TracingExporter != "stdout" {
		return noop, nil
	}

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return noop, err
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
