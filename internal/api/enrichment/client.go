// Package enrichment turns a static itinerary activity into generated
// descriptions, recommendations and travel hints.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-trip-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/kvcache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const (
	defaultTemperature = 0.4
	defaultCallTimeout = 30 * time.Second
)

type Options struct {
	Prompt      PromptContext
	Temperature float32
	CallTimeout time.Duration
	Retry       RetryPolicy
	Skip        SkipPolicy
	// Limiter, when set, is waited on before every live request.
	Limiter *rate.Limiter
}

func DefaultOptions() Options {
	return Options{
		Prompt:      PromptContext{Destination: "Chiang Mai, Thailand", Language: "Traditional Chinese (zh-TW)"},
		Temperature: defaultTemperature,
		CallTimeout: defaultCallTimeout,
		Retry:       DefaultRetryPolicy(),
		Skip:        DefaultSkipPolicy(),
	}
}

// Client enriches one activity per call. It never returns an error except a
// *QuotaExceededError; every other failure yields an empty result.
type Client struct {
	generator generativeAI.Generator
	cache     *kvcache.Namespace
	opts      Options
	logger    *slog.Logger
}

// NewClient builds a Client. A nil generator makes every call a no-op.
func NewClient(generator generativeAI.Generator, cache *kvcache.Namespace, opts Options, logger *slog.Logger) *Client {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		generator: generator,
		cache:     cache,
		opts:      opts,
		logger:    logger,
	}
}

// Available reports whether a generative backend is configured.
func (c *Client) Available() bool {
	return c != nil && c.generator != nil
}

func (c *Client) Enrich(ctx context.Context, activity types.Activity, previousLocation string) (types.EnrichmentResult, error) {
	ctx, span := otel.Tracer("EnrichmentClient").Start(ctx, "Enrich", trace.WithAttributes(
		attribute.String("activity.id", activity.ID),
		attribute.String("activity.type", string(activity.Type)),
		attribute.String("previous_location", previousLocation),
	))
	defer span.End()

	if !c.Available() {
		span.SetStatus(codes.Ok, "Generator not configured")
		return types.EnrichmentResult{}, nil
	}
	if c.opts.Skip.ShouldSkip(activity) {
		span.AddEvent("Skipped by policy")
		span.SetStatus(codes.Ok, "Activity not worth enriching")
		return types.EnrichmentResult{}, nil
	}

	if cached, ok := c.fromCache(ctx, activity.ID); ok {
		span.AddEvent("Cache hit")
		span.SetStatus(codes.Ok, "Enrichment served from cache")
		return cached, nil
	}

	prompt := getActivityPrompt(c.opts.Prompt, activity, previousLocation)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](c.opts.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   activityResponseSchema(),
	}
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	start := time.Now()
	text, err := c.opts.Retry.Run(ctx, func(ctx context.Context) (string, error) {
		if c.opts.Limiter != nil {
			if err := c.opts.Limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
		defer cancel()
		return c.generator.GenerateContent(callCtx, prompt, config)
	})
	metrics.Get().EnrichmentCallDurationSeconds.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		var quotaErr *QuotaExceededError
		if errors.As(err, &quotaErr) {
			c.recordOutcome(ctx, "quota_exceeded")
			c.logger.WarnContext(ctx, "Gemini quota exhausted",
				slog.String("activity_id", activity.ID), slog.Int("attempts", quotaErr.Attempts))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Quota exceeded")
			return types.EnrichmentResult{}, quotaErr
		}
		c.recordOutcome(ctx, "failed")
		c.logger.ErrorContext(ctx, "Gemini enrichment failed",
			slog.String("activity_id", activity.ID), slog.String("title", activity.Title), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return types.EnrichmentResult{}, nil
	}

	result, err := ParseResult(text)
	if err != nil {
		c.recordOutcome(ctx, "invalid")
		c.logger.WarnContext(ctx, "Discarding unparseable enrichment response",
			slog.String("activity_id", activity.ID), slog.Int("response_length", len(text)), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid response")
		return types.EnrichmentResult{}, nil
	}

	if result.IsEmpty() {
		c.recordOutcome(ctx, "empty")
		span.SetStatus(codes.Ok, "Empty result")
		return result, nil
	}

	c.toCache(ctx, activity.ID, result)
	c.recordOutcome(ctx, "enriched")
	c.logger.DebugContext(ctx, "Activity enriched", slog.String("activity_id", activity.ID))
	span.SetStatus(codes.Ok, "Activity enriched")
	return result, nil
}

func (c *Client) fromCache(ctx context.Context, id string) (types.EnrichmentResult, bool) {
	raw, found := c.cache.Get(ctx, id)
	if !found {
		return types.EnrichmentResult{}, false
	}
	var result types.EnrichmentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.WarnContext(ctx, "Evicting corrupt cache entry", slog.String("key", c.cache.Key(id)), slog.Any("error", err))
		c.cache.Delete(ctx, id)
		return types.EnrichmentResult{}, false
	}
	metrics.Get().EnrichmentCacheHitsTotal.Add(ctx, 1)
	c.logger.InfoContext(ctx, "Cache hit for activity enrichment", slog.String("key", c.cache.Key(id)))
	return result, true
}

func (c *Client) toCache(ctx context.Context, id string, result types.EnrichmentResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to encode enrichment for cache", slog.String("activity_id", id), slog.Any("error", err))
		return
	}
	c.cache.Set(ctx, id, string(data))
}

func (c *Client) recordOutcome(ctx context.Context, outcome string) {
	metrics.Get().EnrichmentCallsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
