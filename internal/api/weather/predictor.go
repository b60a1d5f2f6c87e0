// Package weather resolves a per-day weather summary for the schedule.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-trip-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/kvcache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// Fallback is returned whenever nothing better is known.
var Fallback = types.WeatherPrediction{Range: "20-28°C", Icon: types.WeatherIconClear}

var errInvalidPrediction = errors.New("invalid weather prediction")

const (
	sourceCurated   = "curated"
	sourceCache     = "cache"
	sourceGenerated = "generated"
	sourceFallback  = "fallback"
)

type PredictorConfig struct {
	// Curated dates always win over the cache and the generator.
	Curated     map[string]types.WeatherPrediction
	Destination string
	Timeout     time.Duration
	Limiter     *rate.Limiter
}

type Predictor struct {
	cfg       PredictorConfig
	cache     *kvcache.Namespace
	generator generativeAI.Generator
	logger    *slog.Logger
}

// NewPredictor builds a Predictor. generator and cache may be nil; the
// curated table and the fallback still apply.
func NewPredictor(cfg PredictorConfig, cache *kvcache.Namespace, generator generativeAI.Generator, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	table := make(map[string]types.WeatherPrediction, len(cfg.Curated))
	for k, v := range cfg.Curated {
		table[k] = v
	}
	cfg.Curated = table
	return &Predictor{
		cfg:       cfg,
		cache:     cache,
		generator: generator,
		logger:    logger,
	}
}

// Predict never fails. The curated table wins over the cache, the cache over
// a generated estimate, and anything that goes wrong yields Fallback.
func (p *Predictor) Predict(ctx context.Context, dateKey string) types.WeatherPrediction {
	ctx, span := otel.Tracer("WeatherPredictor").Start(ctx, "Predict", trace.WithAttributes(
		attribute.String("date", dateKey),
	))
	defer span.End()

	prediction, source := p.predict(ctx, dateKey)
	span.SetAttributes(attribute.String("weather.source", source))
	metrics.Get().WeatherPredictionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	return prediction
}

func (p *Predictor) predict(ctx context.Context, dateKey string) (types.WeatherPrediction, string) {
	if v, ok := p.cfg.Curated[dateKey]; ok {
		return v, sourceCurated
	}

	if raw, found := p.cache.Get(ctx, dateKey); found {
		var cached types.WeatherPrediction
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.Range != "" {
			return cached, sourceCache
		}
		p.logger.WarnContext(ctx, "Evicting corrupt weather cache entry", slog.String("date", dateKey))
		p.cache.Delete(ctx, dateKey)
	}

	if p.generator == nil {
		return Fallback, sourceFallback
	}

	prediction, err := p.generate(ctx, dateKey)
	if err != nil {
		p.logger.WarnContext(ctx, "Weather prediction failed, using fallback",
			slog.String("date", dateKey), slog.Any("error", err))
		return Fallback, sourceFallback
	}

	if data, err := json.Marshal(prediction); err == nil {
		p.cache.Set(ctx, dateKey, string(data))
	}
	return prediction, sourceGenerated
}

func (p *Predictor) generate(ctx context.Context, dateKey string) (types.WeatherPrediction, error) {
	if p.cfg.Limiter != nil {
		if err := p.cfg.Limiter.Wait(ctx); err != nil {
			return types.WeatherPrediction{}, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"range": {Type: genai.TypeString},
				"icon":  {Type: genai.TypeString, Enum: []string{"clear", "partly-cloudy", "rainy"}},
			},
			Required: []string{"range", "icon"},
		},
	}
	text, err := p.generator.GenerateContent(ctx, getWeatherPrompt(p.cfg.Destination, dateKey), config)
	if err != nil {
		return types.WeatherPrediction{}, err
	}
	return parsePrediction(text)
}

func getWeatherPrompt(destination, dateKey string) string {
	return fmt.Sprintf(`Based on historical climate data, give the typical daily temperature range in %s on %s.
Reply with a JSON object {"range": "<low>-<high>°C", "icon": "<clear|partly-cloudy|rainy>"}.`, destination, dateKey)
}

func parsePrediction(text string) (types.WeatherPrediction, error) {
	raw, err := generativeAI.DecodeJSONObject[types.WeatherPrediction](text)
	if err != nil {
		return types.WeatherPrediction{}, err
	}
	raw.Range = strings.TrimSpace(raw.Range)
	if raw.Range == "" {
		return types.WeatherPrediction{}, fmt.Errorf("%w: empty range", errInvalidPrediction)
	}
	icon, ok := types.NormalizeWeatherIcon(raw.Icon)
	if !ok {
		return types.WeatherPrediction{}, fmt.Errorf("%w: unknown icon %q", errInvalidPrediction, raw.Icon)
	}
	raw.Icon = icon
	return raw, nil
}
