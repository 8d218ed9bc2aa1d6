package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
)

type WebhookEventRepository interface {
	// Record inserts the event keyed by its external event id and reports
	// whether the row was actually created. A primary-key conflict means the
	// event was already processed; the caller must treat inserted=false as
	// the idempotent-skip signal and not mutate any subscription state.
	Record(ctx context.Context, event *model.WebhookEvent) (bool, error)
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) Record(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	event.ProcessedAt = time.Now()

	// Single atomic insert-or-ignore: two concurrent deliveries of the same
	// event id race on the unique key, never on a separate existence check.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}
