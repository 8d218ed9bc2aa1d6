package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gatofitnees/Appmovil-sub001/internal/client"
	"github.com/Gatofitnees/Appmovil-sub001/internal/dto"
	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
	"github.com/Gatofitnees/Appmovil-sub001/internal/repository"
	"github.com/Gatofitnees/Appmovil-sub001/internal/service"
)

type stubAppleClient struct {
	result *client.AppleVerifyResult
	err    error
}

func (c *stubAppleClient) VerifyReceipt(ctx context.Context, receipt string) (*client.AppleVerifyResult, error) {
	return c.result, c.err
}

type stubGoogleClient struct {
	result *client.GoogleVerifyResult
	err    error
}

func (c *stubGoogleClient) VerifySubscription(ctx context.Context, packageName, subscriptionID, purchaseToken string) (*client.GoogleVerifyResult, error) {
	return c.result, c.err
}

func newReceiptService(t *testing.T, apple client.AppleClient, google client.GoogleClient) (service.ReceiptService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserSubscription{}, &model.WebhookEvent{}))

	svc := service.NewReceiptService(apple, google, repository.NewSubscriptionRepository(db), zap.NewNop())
	return svc, db
}

func TestVerifyPlayStoreReceiptUpsertsSubscription(t *testing.T) {
	google := &stubGoogleClient{result: &client.GoogleVerifyResult{
		ExpiryTimeMS: 1731536000000,
		OrderID:      "GPA.9999",
	}}
	svc, db := newReceiptService(t, nil, google)

	sub, err := svc.VerifyPlayStoreReceipt(context.Background(), &dto.VerifyPlayStoreReceiptRequest{
		PackageName:    "com.gatofit.app",
		SubscriptionID: "gatofit_premium:monthly",
		Token:          "purchase-token",
		UserID:         "U1",
		ProductID:      "gatofit_premium:monthly",
	})
	require.NoError(t, err)
	require.Equal(t, model.SubscriptionStatusActive, sub.Status)
	require.Equal(t, model.PlanTypeMonthly, sub.PlanType)
	require.Equal(t, model.PaymentMethodGooglePlay, sub.PaymentMethod)
	require.Equal(t, model.StorePlatformPlayStore, sub.StorePlatform)
	require.Equal(t, "GPA.9999", sub.GooglePlayOrderID)
	require.Equal(t, "purchase-token", sub.GooglePlayPurchaseToken)
	require.NotNil(t, sub.ExpiresAt)

	var stored model.UserSubscription
	require.NoError(t, db.Where("user_id = ?", "U1").First(&stored).Error)
	require.Equal(t, "GPA.9999", stored.GooglePlayOrderID)
}

func TestVerifyPlayStoreReceiptRejectedNotStored(t *testing.T) {
	google := &stubGoogleClient{err: client.ErrSubscriptionNotActive}
	svc, db := newReceiptService(t, nil, google)

	_, err := svc.VerifyPlayStoreReceipt(context.Background(), &dto.VerifyPlayStoreReceiptRequest{
		PackageName:    "com.gatofit.app",
		SubscriptionID: "sub",
		Token:          "tok",
		UserID:         "U1",
		ProductID:      "p",
	})
	require.ErrorIs(t, err, client.ErrSubscriptionNotActive)

	var count int64
	require.NoError(t, db.Model(&model.UserSubscription{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestVerifyAppStoreReceiptPreservesStartedAt(t *testing.T) {
	apple := &stubAppleClient{result: &client.AppleVerifyResult{
		LatestReceipt: "blob",
		LatestReceiptInfo: []client.AppleReceiptInfo{
			{OriginalTransactionID: "txn-1", ExpiresDateMS: "1731536000000"},
		},
		ExpiresAtMS: 1731536000000,
	}}
	svc, db := newReceiptService(t, apple, nil)
	ctx := context.Background()

	first, err := svc.VerifyAppStoreReceipt(ctx, &dto.VerifyAppleReceiptRequest{
		Receipt: "b64", UserID: "U1", ProductID: "gatofit_premium:yearly",
	})
	require.NoError(t, err)
	require.NotNil(t, first.StartedAt)

	// Re-verifying the same user later must not move started_at.
	second, err := svc.VerifyAppStoreReceipt(ctx, &dto.VerifyAppleReceiptRequest{
		Receipt: "b64", UserID: "U1", ProductID: "gatofit_premium:yearly",
	})
	require.NoError(t, err)
	require.Equal(t, first.StartedAt.Unix(), second.StartedAt.Unix())

	var count int64
	require.NoError(t, db.Model(&model.UserSubscription{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
