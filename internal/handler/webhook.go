package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/dto"
	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
	"github.com/Gatofitnees/Appmovil-sub001/internal/service"
)

type WebhookHandler struct {
	subscriptionService service.SubscriptionService
	logger              *zap.Logger
}

func NewWebhookHandler(subscriptionService service.SubscriptionService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// HandleRevenueCatWebhook ingests one RevenueCat event. The envelope is
// parsed into a closed typed event right here at the boundary; anything the
// service does not recognize downstream is acknowledged, never retried.
func (h *WebhookHandler) HandleRevenueCatWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	var envelope struct {
		Event json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Event) == 0 || string(envelope.Event) == "null" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "no event data provided"})
	}

	var event model.RevenueCatEvent
	if err := json.Unmarshal(envelope.Event, &event); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed event data"})
	}

	resp, err := h.subscriptionService.HandleWebhookEvent(ctx, &event, envelope.Event)
	if err != nil {
		// Full detail stays server-side; callers get a stable message.
		h.logger.Error("webhook processing failed",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, resp)
}
