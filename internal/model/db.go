package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"

	PlanTypeMonthly = "monthly"
	PlanTypeYearly  = "yearly"

	StorePlatformAppStore  = "app_store"
	StorePlatformPlayStore = "play_store"

	PaymentMethodAppStore   = "app_store"
	PaymentMethodGooglePlay = "google_play"
)

// UserSubscription is the canonical per-user subscription record, merged from
// the RevenueCat webhook and both direct receipt-verification paths.
// "cancelled" is not a status: it is auto_renewal=false while status=active.
type UserSubscription struct {
	UserID        string `gorm:"primaryKey;size:64;not null" json:"user_id"`
	Status        string `gorm:"size:32;index;not null" json:"status"` // active, expired
	PlanType      string `gorm:"size:32" json:"plan_type"`             // monthly, yearly
	AutoRenewal   bool   `json:"auto_renewal"`
	PaymentMethod string `gorm:"size:32" json:"payment_method"` // app_store, google_play
	StorePlatform string `gorm:"size:32" json:"store_platform"` // app_store, play_store

	OriginalTransactionID   string `gorm:"size:128;index" json:"original_transaction_id"`
	ReceiptData             string `gorm:"type:text" json:"-"`
	GooglePlayPurchaseToken string `gorm:"size:255" json:"-"`
	GooglePlayOrderID       string `gorm:"size:128" json:"google_play_order_id,omitempty"`

	StartedAt   *time.Time `json:"started_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WebhookEvent is the idempotency ledger: one row per externally-assigned
// event id ever accepted. Rows are never updated or deleted; the primary-key
// conflict on insert is the duplicate-delivery signal.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	UserID      string `gorm:"size:64;index"`
	Payload     datatypes.JSON
	ProcessedAt time.Time
	CreatedAt   time.Time
}
