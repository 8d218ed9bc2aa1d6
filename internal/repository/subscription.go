package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gatofitnees/Appmovil-sub001/internal/model"
)

type SubscriptionRepository interface {
	// GetByUserID returns nil without error when the user has no record yet.
	GetByUserID(ctx context.Context, userID string) (*model.UserSubscription, error)
	Upsert(ctx context.Context, sub *model.UserSubscription) error
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) GetByUserID(ctx context.Context, userID string) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).
		Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) Upsert(ctx context.Context, sub *model.UserSubscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(sub).Error
}
