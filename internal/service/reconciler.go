package service

import (
	"strings"
	"time"

	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
)

// Product ids containing any of these map to the yearly plan; everything
// else is monthly. Matching is case-insensitive so "SUSCRIPCION_ANUAL"
// resolves the same as "gatofit_premium:yearly".
var yearlyPlanMarkers = []string{"year", "anual", "yearly", "influencer"}

func PlanTypeFromProductID(productID string) string {
	p := strings.ToLower(productID)
	for _, marker := range yearlyPlanMarkers {
		if strings.Contains(p, marker) {
			return model.PlanTypeYearly
		}
	}
	return model.PlanTypeMonthly
}

// Reconcile maps (current record, incoming event) to the next record. It is
// pure: no clock beyond the now argument, no I/O, safe with a nil current
// record. A nil result means the event type does not mutate subscription
// state and must only be acknowledged.
//
// Timestamps come from the event itself, so a late-delivered RENEWAL still
// carries the correct expiry. Field values are last-write-wins: conflicting
// CANCELLATION/RENEWAL order between deliveries resolves to whichever event
// arrived last, not to causal order.
func Reconcile(current *model.UserSubscription, event *model.RevenueCatEvent, now time.Time) *model.UserSubscription {
	next := model.UserSubscription{UserID: event.AppUserID}
	if current != nil {
		next = *current
	}

	next.OriginalTransactionID = event.OriginalTransactionID
	next.StorePlatform = event.Store
	next.UpdatedAt = now

	purchasedAt := now
	if event.PurchasedAtMS > 0 {
		purchasedAt = time.UnixMilli(event.PurchasedAtMS).UTC()
	}

	var expiresAt *time.Time
	if event.ExpirationAtMS > 0 {
		t := time.UnixMilli(event.ExpirationAtMS).UTC()
		expiresAt = &t
	}

	switch event.Type {
	case model.EventInitialPurchase, model.EventRenewal,
		model.EventUncancellation, model.EventProductChange:
		next.Status = model.SubscriptionStatusActive
		next.AutoRenewal = true
		next.PlanType = PlanTypeFromProductID(event.ProductID)
		if expiresAt != nil {
			next.ExpiresAt = expiresAt
		}
		if event.Type == model.EventInitialPurchase {
			next.StartedAt = &purchasedAt
		}
		next.CancelledAt = nil

	case model.EventCancellation:
		// Cancellation is not expiration: the user stays entitled until
		// expires_at, only auto-renewal stops.
		next.Status = model.SubscriptionStatusActive
		next.AutoRenewal = false
		next.CancelledAt = &now
		if expiresAt != nil {
			next.ExpiresAt = expiresAt
		}

	case model.EventExpiration:
		next.Status = model.SubscriptionStatusExpired
		next.AutoRenewal = false
		if expiresAt != nil {
			next.ExpiresAt = expiresAt
		}

	default:
		return nil
	}

	return &next
}
