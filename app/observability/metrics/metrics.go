package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the enrichment pipeline's metric instruments.
type AppMetrics struct {
	EnrichmentCallsTotal          metric.Int64Counter
	EnrichmentCallDurationSeconds metric.Float64Histogram
	EnrichmentCacheHitsTotal      metric.Int64Counter
	WeatherPredictionsTotal       metric.Int64Counter
	ActivitiesMergedTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments ONLY ONCE from the globally
// configured MeterProvider. Call it after the provider is installed.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripItinerary")
		var err error
		m := &AppMetrics{}

		m.EnrichmentCallsTotal, err = meter.Int64Counter(
			"enrichment_calls_total",
			metric.WithDescription("Generative enrichment calls by outcome"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enrichment_calls_total: %v", err)
		}

		m.EnrichmentCallDurationSeconds, err = meter.Float64Histogram(
			"enrichment_call_duration_seconds",
			metric.WithDescription("Duration of generative enrichment calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enrichment_call_duration_seconds: %v", err)
		}

		m.EnrichmentCacheHitsTotal, err = meter.Int64Counter(
			"enrichment_cache_hits_total",
			metric.WithDescription("Enrichment results served from the key-value cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enrichment_cache_hits_total: %v", err)
		}

		m.WeatherPredictionsTotal, err = meter.Int64Counter(
			"weather_predictions_total",
			metric.WithDescription("Weather predictions by source (curated, cache, generated, fallback)"),
			metric.WithUnit("{prediction}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_predictions_total: %v", err)
		}

		m.ActivitiesMergedTotal, err = meter.Int64Counter(
			"activities_merged_total",
			metric.WithDescription("Activities that received enrichment data"),
			metric.WithUnit("{activity}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create activities_merged_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, initializing them on first use. Before a
// MeterProvider is installed the global no-op provider backs them.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
