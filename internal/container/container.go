package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	database "github.com/FACorreiaa/go-trip-itinerary/app/db"
	"github.com/FACorreiaa/go-trip-itinerary/config"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/enrichment"
	generativeAI "github.com/FACorreiaa/go-trip-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/kvcache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/orchestrator"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/schedule"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/weather"
	"github.com/FACorreiaa/go-trip-itinerary/internal/dataset"
)

const (
	BackendMemory   = "memory"
	BackendSnapshot = "snapshot"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Trip         *dataset.Trip
	Store        kvcache.Store
	Schedule     *schedule.Holder
	Enrichment   *enrichment.Client
	Weather      *weather.Predictor
	Orchestrator *orchestrator.Orchestrator

	ScheduleHandler *schedule.HandlerImpl
	StatusHandler   *orchestrator.HandlerImpl

	closers []func() error
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	trip, err := dataset.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load trip dataset: %w", err)
	}
	c.Trip = trip

	store, err := c.openStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	ec := cfg.Enrichment
	var generator generativeAI.Generator
	aiClient, err := generativeAI.NewAIClient(ctx, ec.APIKey, ec.Model)
	switch {
	case errors.Is(err, generativeAI.ErrClientNotConfigured):
		logger.Warn("GOOGLE_GEMINI_API_KEY not set, enrichment disabled")
	case err != nil:
		logger.Error("Failed to create generative AI client, enrichment disabled", slog.Any("error", err))
	default:
		generator = aiClient
		logger.Info("Generative AI client ready", slog.String("model", aiClient.Model()))
	}

	var limiter *rate.Limiter
	if ec.RequestsPerMinute > 0 {
		burst := ec.RequestBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(time.Duration(float64(time.Minute)/ec.RequestsPerMinute)), burst)
	}

	c.Enrichment = enrichment.NewClient(generator,
		kvcache.NewNamespace(store, cfg.Cache.EnrichmentPrefix, logger),
		enrichmentOptions(ec, limiter),
		logger)

	c.Weather = weather.NewPredictor(weather.PredictorConfig{
		Curated:     trip.Weather,
		Destination: ec.Destination,
		Timeout:     ec.CallTimeout,
		Limiter:     limiter,
	}, kvcache.NewNamespace(store, cfg.Cache.WeatherPrefix, logger), generator, logger)

	c.Schedule = schedule.NewHolder(trip.Schedule)
	c.Orchestrator = orchestrator.New(c.Enrichment, c.Weather, c.Schedule, orchestratorConfig(ec), logger)

	c.ScheduleHandler = schedule.NewHandler(c.Schedule, trip.Info, logger)
	c.StatusHandler = orchestrator.NewHandler(c.Orchestrator, logger)
	return c, nil
}

func enrichmentOptions(ec config.Enrichment, limiter *rate.Limiter) enrichment.Options {
	opts := enrichment.DefaultOptions()
	if ec.Destination != "" {
		opts.Prompt.Destination = ec.Destination
	}
	if ec.Language != "" {
		opts.Prompt.Language = ec.Language
	}
	if ec.Temperature > 0 {
		opts.Temperature = ec.Temperature
	}
	if ec.CallTimeout > 0 {
		opts.CallTimeout = ec.CallTimeout
	}
	if ec.MaxRetries >= 0 {
		opts.Retry.MaxRetries = ec.MaxRetries
	}
	if ec.RetryBaseDelay > 0 {
		opts.Retry.BaseDelay = ec.RetryBaseDelay
	}
	if len(ec.BreakfastMarkers) > 0 {
		opts.Skip.BreakfastMarkers = ec.BreakfastMarkers
	}
	opts.Limiter = limiter
	return opts
}

func orchestratorConfig(ec config.Enrichment) orchestrator.Config {
	oc := orchestrator.DefaultConfig()
	if ec.FirstDayOrigin != "" {
		oc.FirstDayOrigin = ec.FirstDayOrigin
	}
	if ec.DailyOrigin != "" {
		oc.DailyOrigin = ec.DailyOrigin
	}
	if ec.WeatherDelay > 0 {
		oc.WeatherDelay = ec.WeatherDelay
	}
	if ec.SlowCallThreshold > 0 {
		oc.Pacer.SlowThreshold = ec.SlowCallThreshold
	}
	if ec.SlowCallDelay > 0 {
		oc.Pacer.SlowDelay = ec.SlowCallDelay
	}
	if ec.FastCallDelay > 0 {
		oc.Pacer.FastDelay = ec.FastCallDelay
	}
	return oc
}

func (c *Container) openStore(ctx context.Context) (kvcache.Store, error) {
	cc := c.Config.Cache
	switch cc.Backend {
	case BackendMemory, "":
		return kvcache.NewMemoryStore(), nil

	case BackendSnapshot:
		return kvcache.NewSnapshotMemoryStore(cc.SnapshotPath)

	case BackendSQLite:
		db, err := database.OpenSQLite(ctx, cc.SQLitePath, c.Logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		return kvcache.NewSQLiteStore(ctx, db)

	case BackendPostgres:
		return c.openPostgres(ctx)

	case BackendRedis:
		rc := c.Config.Repositories.Redis
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		c.closers = append(c.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
		}
		c.Logger.Info("Redis cache connected", slog.String("addr", rc.Addr))
		return kvcache.NewRedisStore(client), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cc.Backend)
}

func (c *Container) openPostgres(ctx context.Context) (kvcache.Store, error) {
	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func() error { pool.Close(); return nil })
	if !database.WaitForDB(ctx, pool, c.Logger) {
		return nil, errors.New("postgres not ready after waiting")
	}
	return kvcache.NewPostgresStore(pool), nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Error closing resource", slog.Any("error", err))
		}
	}
	c.closers = nil
}
