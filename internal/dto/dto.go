package dto

import "github.com/Gatofitnees/Appmovil-sub001/internal/model"

// WebhookResponse is always returned with HTTP 200: RevenueCat retries any
// non-2xx, so skips and intentional no-ops must still acknowledge.
type WebhookResponse struct {
	Success bool   `json:"success,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type VerifyAppleReceiptRequest struct {
	Receipt   string `json:"receipt"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

type VerifyPlayStoreReceiptRequest struct {
	PackageName    string `json:"packageName"`
	SubscriptionID string `json:"subscriptionId"`
	Token          string `json:"token"`
	UserID         string `json:"userId"`
	ProductID      string `json:"productId"`
}

type VerifyReceiptResponse struct {
	Success      bool                    `json:"success"`
	Subscription *model.UserSubscription `json:"subscription,omitempty"`
	Error        string                  `json:"error,omitempty"`
}
