package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Gatofitnees/Appmovil-sub001/internal/dto"
	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
	"github.com/Gatofitnees/Appmovil-sub001/internal/repository"
)

type SubscriptionService interface {
	HandleWebhookEvent(ctx context.Context, event *model.RevenueCatEvent, rawEvent []byte) (*dto.WebhookResponse, error)
}

type subscriptionServiceImpl struct {
	subscriptionRepo repository.SubscriptionRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *zap.Logger
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

func (s *subscriptionServiceImpl) HandleWebhookEvent(ctx context.Context, event *model.RevenueCatEvent, rawEvent []byte) (*dto.WebhookResponse, error) {
	// RevenueCat emits events for anonymous identities before the app maps
	// them to a real user; there is nothing to attach entitlement to.
	if event.AppUserID == "" || strings.HasPrefix(event.AppUserID, model.AnonymousUserPrefix) {
		s.logger.Info("skipping anonymous user",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return &dto.WebhookResponse{Skipped: true, Reason: "anonymous_user"}, nil
	}

	inserted, err := s.webhookEventRepo.Record(ctx, &model.WebhookEvent{
		EventID:   event.ID,
		EventType: event.Type,
		UserID:    event.AppUserID,
		Payload:   datatypes.JSON(rawEvent),
	})
	if err != nil {
		return nil, fmt.Errorf("record webhook event: %w", err)
	}
	if !inserted {
		s.logger.Info("event already processed",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return &dto.WebhookResponse{Success: true, Message: "Event already processed"}, nil
	}

	switch event.Type {
	case model.EventInitialPurchase, model.EventRenewal, model.EventUncancellation,
		model.EventProductChange, model.EventCancellation, model.EventExpiration:
	case model.EventTest:
		return &dto.WebhookResponse{Success: true, Message: "Test event received"}, nil
	default:
		// Acknowledged without effect so RevenueCat does not retry event
		// types this engine intentionally ignores.
		s.logger.Info("unhandled event type", zap.String("type", event.Type))
		return &dto.WebhookResponse{Success: true, Message: "Unhandled event type"}, nil
	}

	current, err := s.subscriptionRepo.GetByUserID(ctx, event.AppUserID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	next := Reconcile(current, event, time.Now().UTC())
	if next == nil {
		return &dto.WebhookResponse{Success: true, Message: "Unhandled event type"}, nil
	}

	if err := s.subscriptionRepo.Upsert(ctx, next); err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}

	s.logger.Info("subscription event applied",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("user_id", event.AppUserID),
		zap.String("status", next.Status),
		zap.Bool("auto_renewal", next.AutoRenewal))

	return &dto.WebhookResponse{Success: true}, nil
}
