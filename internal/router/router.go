package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/orchestrator"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/schedule"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ScheduleHandler *schedule.HandlerImpl
	StatusHandler   *orchestrator.HandlerImpl
	AllowedOrigins  []string
	// RequestTimeout bounds every route except the event stream.
	RequestTimeout time.Duration
}

const defaultRequestTimeout = 60 * time.Second

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in main.go
// before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	bounded := middleware.Timeout(timeout)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/schedule", func(r chi.Router) {
			r.With(bounded).Get("/", cfg.ScheduleHandler.GetSchedule)
			r.With(bounded).Get("/days/{dayIndex}", cfg.ScheduleHandler.GetDay)
			r.With(bounded).Get("/activities/{activityID}", cfg.ScheduleHandler.GetActivity)
			r.Get("/events", cfg.ScheduleHandler.StreamEvents)
		})
		r.With(bounded).Get("/trip", cfg.ScheduleHandler.GetTripInfo)
		r.With(bounded).Get("/enrichment/status", cfg.StatusHandler.GetStatus)
	})

	return r
}
