package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mensa/internal/promotion/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListActiveLocal(ctx context.Context, canteenID snowflake.ID, on time.Time) ([]domain.Promotion, error) {
	var promos []domain.Promotion
	err := r.db.WithContext(ctx).
		Model(&domain.Promotion{}).
		Where("level = ?", domain.LevelLocal).
		Where("canteen_id = ?", canteenID).
		Where("valid_from <= ?", on).
		Where("valid_to >= ?", on).
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *repo) ListActiveNational(ctx context.Context, chainID snowflake.ID, on time.Time) ([]domain.Promotion, error) {
	var promos []domain.Promotion
	err := r.db.WithContext(ctx).
		Model(&domain.Promotion{}).
		Where("level = ?", domain.LevelNational).
		Where("chain_id = ?", chainID).
		Where("valid_from <= ?", on).
		Where("valid_to >= ?", on).
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}
