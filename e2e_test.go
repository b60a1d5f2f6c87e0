package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"

	appLogger "github.com/FACorreiaa/go-trip-itinerary/app/logger"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/enrichment"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/kvcache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/orchestrator"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/schedule"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/weather"
	"github.com/FACorreiaa/go-trip-itinerary/internal/dataset"
	api "github.com/FACorreiaa/go-trip-itinerary/internal/router"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// scriptedGenerator answers every activity prompt with a canned result and
// can be told to start failing with a quota error after n calls.
type scriptedGenerator struct {
	mu         sync.Mutex
	calls      int
	quotaAfter int
}

func (g *scriptedGenerator) GenerateContent(_ context.Context, prompt string, _ *genai.GenerateContentConfig) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.quotaAfter > 0 && g.calls > g.quotaAfter {
		return "", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Message: "quota"}
	}
	return fmt.Sprintf(`{"aiDescription":"story %d","tips":["tip"],"estimatedTravelTime":"about %d min"}`, g.calls, g.calls), nil
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

type stack struct {
	holder *schedule.Holder
	orch   *orchestrator.Orchestrator
	server *httptest.Server
}

// E2ETestSuite runs the full pipeline against the embedded trip.
type E2ETestSuite struct {
	suite.Suite
	logger *slog.Logger
	trip   *dataset.Trip
}

func (s *E2ETestSuite) SetupSuite() {
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	trip, err := dataset.Load()
	s.Require().NoError(err)
	s.trip = trip
}

func (s *E2ETestSuite) newStack(store kvcache.Store, gen *scriptedGenerator) *stack {
	opts := enrichment.DefaultOptions()
	opts.Retry.Sleep = noSleep
	client := enrichment.NewClient(gen, kvcache.NewNamespace(store, "gemini_v8_", s.logger), opts, s.logger)
	predictor := weather.NewPredictor(weather.PredictorConfig{Curated: s.trip.Weather, Destination: "Chiang Mai, Thailand"},
		kvcache.NewNamespace(store, "weather_v2_", s.logger), gen, s.logger)

	holder := schedule.NewHolder(s.trip.Schedule)
	orch := orchestrator.New(client, predictor, holder, orchestrator.DefaultConfig(), s.logger, orchestrator.WithSleep(noSleep))

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(appLogger.StructuredLogger(s.logger))
	router.Use(middleware.StripSlashes)
	router.Mount("/", api.SetupRouter(&api.Config{
		ScheduleHandler: schedule.NewHandler(holder, s.trip.Info, s.logger),
		StatusHandler:   orchestrator.NewHandler(orch, s.logger),
	}))

	st := &stack{holder: holder, orch: orch, server: httptest.NewServer(router)}
	s.T().Cleanup(st.server.Close)
	return st
}

func (s *E2ETestSuite) getJSON(st *stack, path string, dst any) {
	resp, err := http.Get(st.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, path)
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dst))
}

func (s *E2ETestSuite) TestFullRunEnrichesEveryEligibleActivity() {
	gen := &scriptedGenerator{}
	st := s.newStack(kvcache.NewMemoryStore(), gen)

	s.Equal(orchestrator.StateCompleted, st.orch.Run(context.Background()))

	// curated weather covers every day, so only activities reach the backend
	s.Equal(28, gen.Calls())

	var body struct {
		Days types.Schedule `json:"days"`
	}
	s.getJSON(st, "/api/v1/schedule", &body)
	for _, day := range body.Days {
		s.False(day.HasPlaceholderWeather(), day.Date)
		for _, a := range day.Activities {
			skipped := a.Type == types.ActivityTypeFlight || strings.Contains(a.Title, "早餐")
			s.Equal(!skipped, a.IsEnriched(), a.ID)
		}
	}

	var status struct {
		State  string `json:"state"`
		Merged int    `json:"merged"`
	}
	s.getJSON(st, "/api/v1/enrichment/status", &status)
	s.Equal("completed", status.State)
	s.Equal(28, status.Merged)
}

func (s *E2ETestSuite) TestCacheMakesRestartFree() {
	store := kvcache.NewMemoryStore()
	first := &scriptedGenerator{}
	s.Equal(orchestrator.StateCompleted, s.newStack(store, first).orch.Run(context.Background()))

	second := &scriptedGenerator{}
	st := s.newStack(store, second)
	s.Equal(orchestrator.StateCompleted, st.orch.Run(context.Background()))

	s.Zero(second.Calls())
	a, _, _, found := st.holder.Snapshot().FindActivity("1-3")
	s.Require().True(found)
	s.Equal("story 1", a.AIDescription)
}

func (s *E2ETestSuite) TestQuotaStopsTheWalkButKeepsMerges() {
	gen := &scriptedGenerator{quotaAfter: 3}
	st := s.newStack(kvcache.NewMemoryStore(), gen)

	s.Equal(orchestrator.StateAborted, st.orch.Run(context.Background()))
	// three successes, then the failing call and its single retry
	s.Equal(5, gen.Calls())

	merged := 0
	for _, day := range st.holder.Snapshot() {
		for _, a := range day.Activities {
			if a.IsEnriched() {
				merged++
			}
		}
	}
	s.Equal(3, merged)

	var status struct {
		State       string `json:"state"`
		AbortReason string `json:"abortReason"`
	}
	s.getJSON(st, "/api/v1/enrichment/status", &status)
	s.Equal("aborted", status.State)
	s.Equal("quota_exceeded", status.AbortReason)
}

func (s *E2ETestSuite) TestActivityDetailCarriesMergedFields() {
	gen := &scriptedGenerator{}
	st := s.newStack(kvcache.NewMemoryStore(), gen)
	st.orch.Run(context.Background())

	var detail struct {
		Activity types.Activity `json:"activity"`
		Maps     *struct {
			Search string `json:"search"`
		} `json:"maps"`
	}
	s.getJSON(st, "/api/v1/schedule/activities/1-2", &detail)
	s.False(detail.Activity.IsEnriched(), "flights are never enriched")
	s.Equal("🚗 20 min", detail.Activity.EstimatedTravelTime)
	s.Require().NotNil(detail.Maps)
	s.Contains(detail.Maps.Search, "Chiang+Mai+International+Airport")
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
