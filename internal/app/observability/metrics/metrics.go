package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	AuthRequestsTotal      metric.Int64Counter
	NotesRequestsTotal     metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram
	NoteCacheHitsTotal     metric.Int64Counter
	NoteCacheMissesTotal   metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("penfolio-web")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.NotesRequestsTotal, err = meter.Int64Counter(
			"notes_requests_total",
			metric.WithDescription("Total number of journal CRUD requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create notes_requests_total: %v", err)
		}

		m.BackendRequestDuration, err = meter.Float64Histogram(
			"backend_request_duration_seconds",
			metric.WithDescription("Duration of remote backend calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create backend_request_duration_seconds: %v", err)
		}

		m.NoteCacheHitsTotal, err = meter.Int64Counter(
			"note_cache_hits_total",
			metric.WithDescription("Journal list reads served from the local cache"),
			metric.WithUnit("{read}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create note_cache_hits_total: %v", err)
		}

		m.NoteCacheMissesTotal, err = meter.Int64Counter(
			"note_cache_misses_total",
			metric.WithDescription("Journal list reads that went to the backend"),
			metric.WithUnit("{read}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create note_cache_misses_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics instance, initializing it against
// the current global MeterProvider if needed.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}

// RecordAuthRequest counts one authentication request per endpoint.
func (m *AppMetrics) RecordAuthRequest(ctx context.Context, endpoint string) {
	m.AuthRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

// RecordNotesRequest counts one journal CRUD request per operation.
func (m *AppMetrics) RecordNotesRequest(ctx context.Context, operation string) {
	m.NotesRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", operation)))
}
