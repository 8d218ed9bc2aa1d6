package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Gatofitnees/Appmovil-sub001/internal/config"
)

// paymentState 1 means payment received. 0 (pending), 2 (free trial) and
// 3 (deferred) do not grant entitlement on this path.
const paymentStateReceived = 1

// ErrSubscriptionNotActive keeps the exact message mobile clients match on.
var ErrSubscriptionNotActive = errors.New("Subscription is not active")

type GoogleClient interface {
	VerifySubscription(ctx context.Context, packageName, subscriptionID, purchaseToken string) (*GoogleVerifyResult, error)
}

type GoogleVerifyResult struct {
	ExpiryTimeMS int64
	PurchaseType int64
	OrderID      string
}

type googleClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	scope      string
	minter     TokenMinter
}

func NewGoogleClient(googleCfg *config.Google, minter TokenMinter) GoogleClient {
	return &googleClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: googleCfg.APIBaseURL,
		scope:      googleCfg.PublisherScope,
		minter:     minter,
	}
}

func (c *googleClientImpl) VerifySubscription(ctx context.Context, packageName, subscriptionID, purchaseToken string) (*GoogleVerifyResult, error) {
	accessToken, err := c.minter.Mint(ctx, c.scope)
	if err != nil {
		return nil, fmt.Errorf("mint publisher access token: %w", err)
	}

	url := fmt.Sprintf(
		"%s/androidpublisher/v3/applications/%s/purchases/subscriptions/%s/tokens/%s",
		c.baseApiURL,
		packageName,
		subscriptionID,
		purchaseToken,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google play validation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google play validation failed: status=%d body=%s",
			resp.StatusCode, string(b))
	}

	// expiryTimeMillis arrives as a string of millis, per the API.
	var result struct {
		ExpiryTimeMillis string `json:"expiryTimeMillis"`
		PaymentState     *int64 `json:"paymentState"`
		PurchaseType     int64  `json:"purchaseType"`
		OrderID          string `json:"orderId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode google play response: %w", err)
	}

	if result.PaymentState == nil || *result.PaymentState != paymentStateReceived {
		return nil, ErrSubscriptionNotActive
	}

	out := &GoogleVerifyResult{
		PurchaseType: result.PurchaseType,
		OrderID:      result.OrderID,
	}
	if ms, err := strconv.ParseInt(result.ExpiryTimeMillis, 10, 64); err == nil {
		out.ExpiryTimeMS = ms
	}

	return out, nil
}
