// Package orchestrator walks the schedule once per process, filling in
// weather for each day and enrichment for each activity.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/enrichment"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateAborted    State = "aborted"
)

type Enricher interface {
	Available() bool
	Enrich(ctx context.Context, activity types.Activity, previousLocation string) (types.EnrichmentResult, error)
}

type WeatherPredictor interface {
	Predict(ctx context.Context, dateKey string) types.WeatherPrediction
}

// Publisher is the schedule state the orchestrator is the only writer of.
type Publisher interface {
	Snapshot() types.Schedule
	Publish(s types.Schedule) uint64
}

// Pacer maps the latency of the last call onto the wait before the next one.
type Pacer struct {
	SlowThreshold time.Duration
	SlowDelay     time.Duration
	FastDelay     time.Duration
}

func (p Pacer) Delay(latency time.Duration) time.Duration {
	if latency > p.SlowThreshold {
		return p.SlowDelay
	}
	return p.FastDelay
}

type Config struct {
	FirstDayOrigin string
	DailyOrigin    string
	WeatherDelay   time.Duration
	Pacer          Pacer
}

func DefaultConfig() Config {
	return Config{
		FirstDayOrigin: "Chiang Mai International Airport",
		DailyOrigin:    "The Raintree Hotel Chiang Mai",
		WeatherDelay:   300 * time.Millisecond,
		Pacer: Pacer{
			SlowThreshold: 500 * time.Millisecond,
			SlowDelay:     2 * time.Second,
			FastDelay:     100 * time.Millisecond,
		},
	}
}

// Status is a point-in-time view of the run.
type Status struct {
	RunID             string     `json:"runId,omitempty"`
	State             State      `json:"state"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	FinishedAt        *time.Time `json:"finishedAt,omitempty"`
	DaysWithWeather   int        `json:"daysWithWeather"`
	ActivitiesVisited int        `json:"activitiesVisited"`
	AlreadyEnriched   int        `json:"alreadyEnriched"`
	// Attempts counts activities handed to the enricher, including ones it
	// skips or answers from cache. Live generations are in enrichment_calls_total.
	Attempts          int        `json:"attempts"`
	Merged            int        `json:"merged"`
	AbortReason       string     `json:"abortReason,omitempty"`
}

type Option func(*Orchestrator)

// WithSleep replaces the pacing sleep, mostly for tests.
func WithSleep(fn enrichment.SleepFunc) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// WithClock replaces the clock used to measure call latency.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

type Orchestrator struct {
	enricher Enricher
	weather  WeatherPredictor
	state    Publisher
	cfg      Config
	logger   *slog.Logger
	sleep    enrichment.SleepFunc
	now      func() time.Time

	mu     sync.Mutex
	status Status
}

// New builds an Orchestrator. enricher may be nil, in which case Run does
// nothing and the schedule keeps its static data.
func New(enricher Enricher, weather WeatherPredictor, state Publisher, cfg Config, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		enricher: enricher,
		weather:  weather,
		state:    state,
		cfg:      cfg,
		logger:   logger,
		sleep:    enrichment.SleepContext,
		now:      time.Now,
		status:   Status{State: StateNotStarted},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status.State
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) available() bool {
	return o.enricher != nil && o.enricher.Available()
}

// Run performs the single enrichment pass. Later calls return the current
// state without doing any work. Quota exhaustion and cancellation end the
// run in StateAborted; neither is reported as an error.
func (o *Orchestrator) Run(ctx context.Context) State {
	o.mu.Lock()
	if o.status.State != StateNotStarted {
		s := o.status.State
		o.mu.Unlock()
		return s
	}
	if !o.available() {
		o.mu.Unlock()
		o.logger.InfoContext(ctx, "Enrichment backend not configured, serving static itinerary")
		return StateNotStarted
	}
	started := o.now()
	o.status = Status{
		RunID:     uuid.NewString(),
		State:     StateRunning,
		StartedAt: &started,
	}
	runID := o.status.RunID
	o.mu.Unlock()

	ctx, span := otel.Tracer("Orchestrator").Start(ctx, "Run", trace.WithAttributes(
		attribute.String("run.id", runID),
	))
	defer span.End()

	l := o.logger.With(slog.String("run_id", runID))
	l.InfoContext(ctx, "Enrichment run started")

	err := o.weatherPhase(ctx, o.cfg.WeatherDelay)
	if err == nil {
		err = o.activityPhase(ctx, l)
	}

	final := StateCompleted
	reason := ""
	switch {
	case err == nil:
	case errors.Is(err, enrichment.ErrQuotaExceeded):
		final, reason = StateAborted, "quota_exceeded"
		l.WarnContext(ctx, "Enrichment stopped, quota exhausted", slog.Any("error", err))
	default:
		final, reason = StateAborted, "cancelled"
		l.WarnContext(ctx, "Enrichment run interrupted", slog.Any("error", err))
	}

	finished := o.now()
	o.mu.Lock()
	o.status.State = final
	o.status.AbortReason = reason
	o.status.FinishedAt = &finished
	summary := o.status
	o.mu.Unlock()

	span.SetAttributes(
		attribute.String("run.state", string(final)),
		attribute.Int("run.attempts", summary.Attempts),
		attribute.Int("run.merged", summary.Merged),
	)
	if final == StateAborted {
		span.SetStatus(codes.Error, reason)
	} else {
		span.SetStatus(codes.Ok, "Enrichment run completed")
	}
	l.InfoContext(ctx, "Enrichment run finished",
		slog.String("state", string(final)),
		slog.Int("attempts", summary.Attempts),
		slog.Int("merged", summary.Merged),
		slog.Duration("elapsed", finished.Sub(started)))
	return final
}

// SettleWeather resolves placeholder weather without enriching activities.
// It is meant for processes that have no enrichment backend so days do not
// keep showing the loading placeholder.
func (o *Orchestrator) SettleWeather(ctx context.Context) error {
	if o.State() != StateNotStarted {
		return nil
	}
	return o.weatherPhase(ctx, 0)
}

func (o *Orchestrator) weatherPhase(ctx context.Context, delay time.Duration) error {
	if o.weather == nil {
		return nil
	}
	working := o.state.Snapshot()
	for i, day := range working {
		if !day.HasPlaceholderWeather() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		working[i] = day.ApplyWeather(o.weather.Predict(ctx, day.Date))
		o.state.Publish(working)
		o.bump(func(s *Status) { s.DaysWithWeather++ })

		if err := o.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) activityPhase(ctx context.Context, l *slog.Logger) error {
	working := o.state.Snapshot()
	for dayIdx := range working {
		if err := o.foldDay(ctx, l, working, dayIdx); err != nil {
			return err
		}
	}
	return nil
}

// foldDay enriches one day's activities in order. Each request depends on
// the location reached by the activity before it.
func (o *Orchestrator) foldDay(ctx context.Context, l *slog.Logger, working types.Schedule, dayIdx int) error {
	chain := newLocationChain(o.originFor(dayIdx))
	activities := working[dayIdx].Activities

	for actIdx := range activities {
		activity := activities[actIdx]
		o.bump(func(s *Status) { s.ActivitiesVisited++ })

		if activity.IsEnriched() {
			o.bump(func(s *Status) { s.AlreadyEnriched++ })
			chain.advance(activity)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		start := o.now()
		result, err := o.enricher.Enrich(ctx, activity, chain.current())
		latency := o.now().Sub(start)
		o.bump(func(s *Status) { s.Attempts++ })

		if err != nil {
			if errors.Is(err, enrichment.ErrQuotaExceeded) {
				return err
			}
			l.WarnContext(ctx, "Unexpected enrichment error, moving on",
				slog.String("activity_id", activity.ID), slog.Any("error", err))
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if !result.IsEmpty() {
			activity = activity.Merge(result)
			activities[actIdx] = activity
			o.state.Publish(working)
			o.bump(func(s *Status) { s.Merged++ })
			metrics.Get().ActivitiesMergedTotal.Add(ctx, 1)
			l.DebugContext(ctx, "Activity merged", slog.String("activity_id", activity.ID))
		}
		chain.advance(activity)

		if err := o.sleep(ctx, o.cfg.Pacer.Delay(latency)); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) originFor(dayIdx int) string {
	if dayIdx == 0 {
		return o.cfg.FirstDayOrigin
	}
	return o.cfg.DailyOrigin
}

func (o *Orchestrator) bump(fn func(*Status)) {
	o.mu.Lock()
	fn(&o.status)
	o.mu.Unlock()
}

// locationChain tracks where the traveller is standing before each activity.
type locationChain struct {
	location string
}

func newLocationChain(origin string) *locationChain {
	return &locationChain{location: origin}
}

func (c *locationChain) current() string {
	return c.location
}

func (c *locationChain) advance(a types.Activity) {
	if a.Location != "" {
		c.location = a.Location
	}
}
