package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/client"
	"github.com/Gatofitnees/Appmovil-sub001/internal/dto"
	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
	"github.com/Gatofitnees/Appmovil-sub001/internal/repository"
)

// ReceiptService verifies raw store receipts submitted directly by the app
// and upserts the canonical subscription record. Unlike the webhook path
// this is not idempotency-guarded: the stores assign no event id here, and
// re-verifying the same receipt converges on the same row anyway.
type ReceiptService interface {
	VerifyAppStoreReceipt(ctx context.Context, req *dto.VerifyAppleReceiptRequest) (*model.UserSubscription, error)
	VerifyPlayStoreReceipt(ctx context.Context, req *dto.VerifyPlayStoreReceiptRequest) (*model.UserSubscription, error)
}

type receiptServiceImpl struct {
	appleClient      client.AppleClient
	googleClient     client.GoogleClient
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
}

func NewReceiptService(
	appleClient client.AppleClient,
	googleClient client.GoogleClient,
	subscriptionRepo repository.SubscriptionRepository,
	logger *zap.Logger,
) ReceiptService {
	return &receiptServiceImpl{
		appleClient:      appleClient,
		googleClient:     googleClient,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (s *receiptServiceImpl) VerifyAppStoreReceipt(ctx context.Context, req *dto.VerifyAppleReceiptRequest) (*model.UserSubscription, error) {
	result, err := s.appleClient.VerifyReceipt(ctx, req.Receipt)
	if err != nil {
		return nil, fmt.Errorf("validate apple receipt: %w", err)
	}

	now := time.Now().UTC()
	sub, err := s.loadOrInit(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	sub.Status = model.SubscriptionStatusActive
	sub.PlanType = PlanTypeFromProductID(req.ProductID)
	sub.PaymentMethod = model.PaymentMethodAppStore
	sub.StorePlatform = model.StorePlatformAppStore
	sub.ReceiptData = result.LatestReceipt
	if len(result.LatestReceiptInfo) > 0 {
		sub.OriginalTransactionID = result.LatestReceiptInfo[0].OriginalTransactionID
	}
	if result.ExpiresAtMS > 0 {
		t := time.UnixMilli(result.ExpiresAtMS).UTC()
		sub.ExpiresAt = &t
	}
	if sub.StartedAt == nil {
		sub.StartedAt = &now
	}
	sub.UpdatedAt = now

	if err := s.subscriptionRepo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}

	s.logger.Info("apple receipt verified",
		zap.String("user_id", req.UserID),
		zap.String("plan_type", sub.PlanType))

	return sub, nil
}

func (s *receiptServiceImpl) VerifyPlayStoreReceipt(ctx context.Context, req *dto.VerifyPlayStoreReceiptRequest) (*model.UserSubscription, error) {
	result, err := s.googleClient.VerifySubscription(ctx, req.PackageName, req.SubscriptionID, req.Token)
	if err != nil {
		return nil, fmt.Errorf("validate google play receipt: %w", err)
	}

	now := time.Now().UTC()
	sub, err := s.loadOrInit(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	sub.Status = model.SubscriptionStatusActive
	sub.PlanType = PlanTypeFromProductID(req.ProductID)
	sub.PaymentMethod = model.PaymentMethodGooglePlay
	sub.StorePlatform = model.StorePlatformPlayStore
	sub.GooglePlayPurchaseToken = req.Token
	sub.GooglePlayOrderID = result.OrderID
	if result.ExpiryTimeMS > 0 {
		t := time.UnixMilli(result.ExpiryTimeMS).UTC()
		sub.ExpiresAt = &t
	}
	if sub.StartedAt == nil {
		sub.StartedAt = &now
	}
	sub.UpdatedAt = now

	if err := s.subscriptionRepo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}

	s.logger.Info("google play receipt verified",
		zap.String("user_id", req.UserID),
		zap.String("order_id", result.OrderID),
		zap.String("plan_type", sub.PlanType))

	return sub, nil
}

func (s *receiptServiceImpl) loadOrInit(ctx context.Context, userID string) (*model.UserSubscription, error) {
	current, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if current == nil {
		return &model.UserSubscription{UserID: userID}, nil
	}
	return current, nil
}
