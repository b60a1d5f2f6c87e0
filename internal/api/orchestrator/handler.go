package orchestrator

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
)

type HandlerImpl struct {
	orchestrator *Orchestrator
	logger       *slog.Logger
}

func NewHandler(orchestrator *Orchestrator, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

type statusResponse struct {
	Status
	Available bool `json:"available"`
}

// GetStatus handles GET /enrichment/status
func (h *HandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("OrchestratorHandler").Start(r.Context(), "GetStatus")
	defer span.End()

	status := h.orchestrator.Status()
	span.SetAttributes(attribute.String("run.state", string(status.State)))
	span.SetStatus(codes.Ok, "Status returned")
	api.WriteJSONResponse(w, r.WithContext(ctx), http.StatusOK, statusResponse{
		Status:    status,
		Available: h.orchestrator.available(),
	})
}
