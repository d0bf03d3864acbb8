package results

import (
	"errors"

	"document-manager/core/logger"
	"document-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the pipeline over HTTP for replaying events.
type Handler struct {
	pipeline *Pipeline
}

// NewHandler creates a new HTTP handler.
func NewHandler(pipeline *Pipeline) *Handler {
	// Force import for Swagger
	var _ = server.ErrorBody{}
	return &Handler{pipeline: pipeline}
}

// RegisterRoutes registers the results routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/results", h.HandleProcess)
}

// ProcessResponse is returned after a report has been stored.
type ProcessResponse struct {
	Key string `json:"key"`
}

// HandleProcess renders and stores a report from an event body.
// @Summary Process Appointment Result
// @Description Renders the appointment result as a PDF and stores it under <resultId>.pdf, exactly as the queue consumer does.
// @Tags results
// @Accept json
// @Produce json
// @Param event body models.AppointmentResult true "Appointment result event"
// @Success 201 {object} ProcessResponse "Stored report key"
// @Failure 400 {object} server.ErrorBody "Invalid event"
// @Failure 500 {object} server.ErrorBody "Internal Server Error"
// @Router /results [post]
func (h *Handler) HandleProcess(c *fiber.Ctx) error {
	event, err := DecodeEvent(c.Body())
	if err != nil {
		h.pipeline.metrics.IncEvent(OutcomeDecodeFailed)
		var de *DecodeError
		if errors.As(err, &de) {
			return fiber.NewError(fiber.StatusBadRequest, de.Error())
		}
		return err
	}

	l := logger.WithRayID(h.pipeline.logger, c)
	l.Info("Processing appointment result over HTTP", zap.String("result_id", event.ResultID.String()))

	if err := h.pipeline.Process(c.Context(), event); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ProcessResponse{Key: event.StorageKey()})
}
