package weather

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/kvcache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var curated = map[string]types.WeatherPrediction{
	"2025-11-28": {Range: "17-21°C", Icon: types.WeatherIconClear},
}

func newPredictor(gen *MockGenerator, store kvcache.Store) *Predictor {
	ns := kvcache.NewNamespace(store, "weather_v2_", testLogger())
	cfg := PredictorConfig{Curated: curated, Destination: "Chiang Mai, Thailand", Timeout: time.Second}
	if gen == nil {
		return NewPredictor(cfg, ns, nil, testLogger())
	}
	return NewPredictor(cfg, ns, gen, testLogger())
}

func TestPredict_CuratedWins(t *testing.T) {
	ctx := context.Background()
	gen := new(MockGenerator)
	store := kvcache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "weather_v2_2025-11-28", `{"range":"30-35°C","icon":"🌧️"}`))

	got := newPredictor(gen, store).Predict(ctx, "2025-11-28")

	assert.Equal(t, types.WeatherPrediction{Range: "17-21°C", Icon: types.WeatherIconClear}, got)
	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestPredict_CacheBeforeGenerator(t *testing.T) {
	ctx := context.Background()
	gen := new(MockGenerator)
	store := kvcache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "weather_v2_2025-12-10", `{"range":"14-27°C","icon":"⛅"}`))

	got := newPredictor(gen, store).Predict(ctx, "2025-12-10")

	assert.Equal(t, types.WeatherPrediction{Range: "14-27°C", Icon: types.WeatherIconPartlyCloudy}, got)
	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestPredict_GeneratesAndCaches(t *testing.T) {
	ctx := context.Background()
	gen := new(MockGenerator)
	store := kvcache.NewMemoryStore()
	gen.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return containsAll(prompt, "Chiang Mai", "2025-12-10")
	}), mock.Anything).Return("```json\n{\"range\":\"15-28°C\",\"icon\":\"partly-cloudy\"}\n```", nil).Once()

	p := newPredictor(gen, store)
	got := p.Predict(ctx, "2025-12-10")
	assert.Equal(t, types.WeatherPrediction{Range: "15-28°C", Icon: types.WeatherIconPartlyCloudy}, got)

	raw, found, err := store.Get(ctx, "weather_v2_2025-12-10")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"range":"15-28°C","icon":"⛅"}`, raw)

	assert.Equal(t, got, p.Predict(ctx, "2025-12-10"))
	gen.AssertExpectations(t)
}

func TestPredict_FallbackNeverFails(t *testing.T) {
	cases := map[string]struct {
		text string
		err  error
	}{
		"api error":    {err: errors.New("503 unavailable")},
		"garbage":      {text: "sunny and warm"},
		"unknown icon": {text: `{"range":"20-30°C","icon":"snow"}`},
		"empty range":  {text: `{"range":"  ","icon":"clear"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			gen := new(MockGenerator)
			store := kvcache.NewMemoryStore()
			gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(tc.text, tc.err).Once()

			got := newPredictor(gen, store).Predict(ctx, "2026-01-01")
			assert.Equal(t, Fallback, got)

			_, found, _ := store.Get(ctx, "weather_v2_2026-01-01")
			assert.False(t, found)
		})
	}
}

func TestPredict_NoGenerator(t *testing.T) {
	p := newPredictor(nil, kvcache.NewMemoryStore())
	assert.Equal(t, Fallback, p.Predict(context.Background(), "2026-01-01"))
	assert.Equal(t, "17-21°C", p.Predict(context.Background(), "2025-11-28").Range)
}

func TestPredict_CorruptCacheIsEvicted(t *testing.T) {
	ctx := context.Background()
	store := kvcache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "weather_v2_2026-01-01", "nope"))

	assert.Equal(t, Fallback, newPredictor(nil, store).Predict(ctx, "2026-01-01"))

	_, found, _ := store.Get(ctx, "weather_v2_2026-01-01")
	assert.False(t, found)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
