package schedule

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const eventTypeSchedule = "schedule"

type HandlerImpl struct {
	holder *Holder
	trip   types.TripInfo
	logger *slog.Logger
}

func NewHandler(holder *Holder, trip types.TripInfo, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		holder: holder,
		trip:   trip,
		logger: logger,
	}
}

type scheduleResponse struct {
	Version   uint64         `json:"version"`
	UpdatedAt string         `json:"updatedAt"`
	Days      types.Schedule `json:"days"`
}

type activityResponse struct {
	Activity     types.Activity `json:"activity"`
	DayIndex     int            `json:"dayIndex"`
	Date         string         `json:"date"`
	WeatherRange string         `json:"weatherRange"`
	WeatherIcon  string         `json:"weatherIcon,omitempty"`
	Maps         *MapLinks      `json:"maps,omitempty"`
}

type hotelView struct {
	types.HotelInfo
	Maps *MapLinks `json:"maps,omitempty"`
}

type tripResponse struct {
	types.TripInfo
	Hotels []hotelView `json:"hotels"`
}

// GetSchedule handles GET /schedule
func (h *HandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ScheduleHandler").Start(r.Context(), "GetSchedule", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/schedule"),
	))
	defer span.End()

	s, change := h.holder.SnapshotWithVersion()
	span.SetAttributes(attribute.Int64("schedule.version", int64(change.Version)))
	span.SetStatus(codes.Ok, "Schedule returned")
	api.WriteJSONResponse(w, r.WithContext(ctx), http.StatusOK, scheduleResponse{
		Version:   change.Version,
		UpdatedAt: change.UpdatedAt.UTC().Format(time.RFC3339),
		Days:      s,
	})
}

// GetDay handles GET /schedule/days/{dayIndex}
func (h *HandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ScheduleHandler").Start(r.Context(), "GetDay", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/schedule/days/{dayIndex}"),
	))
	defer span.End()

	raw := chi.URLParam(r, "dayIndex")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid day index")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid day index")
		return
	}

	s := h.holder.Snapshot()
	if idx < 0 || idx >= len(s) {
		span.SetStatus(codes.Error, "Day not found")
		api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Day %d not found", idx))
		return
	}

	span.SetAttributes(attribute.String("day.date", s[idx].Date))
	span.SetStatus(codes.Ok, "Day returned")
	api.WriteJSONResponse(w, r.WithContext(ctx), http.StatusOK, s[idx])
}

// GetActivity handles GET /schedule/activities/{activityID}
func (h *HandlerImpl) GetActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ScheduleHandler").Start(r.Context(), "GetActivity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/schedule/activities/{activityID}"),
	))
	defer span.End()

	id := chi.URLParam(r, "activityID")
	span.SetAttributes(attribute.String("activity.id", id))

	s := h.holder.Snapshot()
	activity, dayIdx, _, ok := s.FindActivity(id)
	if !ok {
		h.logger.WarnContext(ctx, "Activity not found", slog.String("activity_id", id))
		span.SetStatus(codes.Error, "Activity not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Activity not found")
		return
	}

	day := s[dayIdx]
	span.SetStatus(codes.Ok, "Activity returned")
	api.WriteJSONResponse(w, r.WithContext(ctx), http.StatusOK, activityResponse{
		Activity:     activity,
		DayIndex:     dayIdx,
		Date:         day.Date,
		WeatherRange: day.WeatherRange,
		WeatherIcon:  day.WeatherIcon,
		Maps:         mapLinksFor(activity.Location),
	})
}

// GetTripInfo handles GET /trip
func (h *HandlerImpl) GetTripInfo(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ScheduleHandler").Start(r.Context(), "GetTripInfo")
	defer span.End()

	resp := tripResponse{TripInfo: h.trip, Hotels: make([]hotelView, 0, len(h.trip.Hotels))}
	for _, hotel := range h.trip.Hotels {
		resp.Hotels = append(resp.Hotels, hotelView{HotelInfo: hotel, Maps: mapLinksFor(hotel.Name)})
	}
	span.SetStatus(codes.Ok, "Trip info returned")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// StreamEvents handles GET /schedule/events. It sends the current schedule
// immediately and again after every published change.
func (h *HandlerImpl) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ScheduleHandler").Start(r.Context(), "StreamEvents")
	defer span.End()

	flusher, ok := w.(http.Flusher)
	if !ok {
		span.SetStatus(codes.Error, "Streaming not supported")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	changes, unsubscribe := h.holder.Subscribe()
	defer unsubscribe()

	if err := h.writeScheduleEvent(w); err != nil {
		h.logger.ErrorContext(ctx, "Failed to write initial schedule event", slog.Any("error", err))
		return
	}
	flusher.Flush()

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				h.logger.DebugContext(ctx, "Schedule stream closed by server")
				return
			}
			if err := h.writeScheduleEvent(w); err != nil {
				h.logger.ErrorContext(ctx, "Failed to write schedule event", slog.Any("error", err))
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			h.logger.DebugContext(ctx, "Client disconnected from schedule stream")
			return
		}
	}
}

func (h *HandlerImpl) writeScheduleEvent(w http.ResponseWriter) error {
	s, change := h.holder.SnapshotWithVersion()
	data, err := json.Marshal(scheduleResponse{
		Version:   change.Version,
		UpdatedAt: change.UpdatedAt.UTC().Format(time.RFC3339),
		Days:      s,
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", change.Version, eventTypeSchedule, data); err != nil {
		return err
	}
	return nil
}
