package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mensa/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repo) ListAllPairs(ctx context.Context) ([]domain.Pair, error) {
	var pairs []domain.Pair
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("user_id", "food_id").
		Find(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *repo) ListItemIDsByUser(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Distinct("food_id").
		Where("user_id = ?", userID).
		Pluck("food_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
