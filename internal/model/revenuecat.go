package model

// Event types delivered by RevenueCat that this service reacts to. Anything
// outside this set is acknowledged without effect so RevenueCat stops
// retrying it.
const (
	EventInitialPurchase = "INITIAL_PURCHASE"
	EventRenewal         = "RENEWAL"
	EventUncancellation  = "UNCANCELLATION"
	EventProductChange   = "PRODUCT_CHANGE"
	EventCancellation    = "CANCELLATION"
	EventExpiration      = "EXPIRATION"
	EventTest            = "TEST"
)

// AnonymousUserPrefix marks RevenueCat identities that were never mapped to
// an app user. Events for them carry no entitlement we can store.
const AnonymousUserPrefix = "$RCAnonymous"

type RevenueCatEvent struct {
	ID                    string `json:"id"`
	Type                  string `json:"type"`
	AppUserID             string `json:"app_user_id"`
	ProductID             string `json:"product_id"`
	PurchasedAtMS         int64  `json:"purchased_at_ms"`
	ExpirationAtMS        int64  `json:"expiration_at_ms"`
	OriginalTransactionID string `json:"original_transaction_id"`
	Store                 string `json:"store"` // app_store, play_store
}
