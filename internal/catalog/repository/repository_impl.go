package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mensa/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) GetItemByID(ctx context.Context, id snowflake.ID) (*domain.FoodItem, error) {
	var item domain.FoodItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListByPopularity(ctx context.Context, excluded []snowflake.ID, limit int) ([]domain.FoodItem, error) {
	var items []domain.FoodItem
	stmt := r.db.WithContext(ctx).
		Model(&domain.FoodItem{}).
		Order("num_orders DESC")
	if len(excluded) > 0 {
		stmt = stmt.Where("id NOT IN ?", excluded)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListSpecialItems(ctx context.Context, canteenID snowflake.ID) ([]domain.FoodItem, error) {
	var items []domain.FoodItem
	err := r.db.WithContext(ctx).
		Model(&domain.FoodItem{}).
		Joins("JOIN special_items ON special_items.food_id = food_items.id").
		Where("special_items.is_special = ?", true).
		Where("food_items.canteen_id = ?", canteenID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) GetCanteen(ctx context.Context, id snowflake.ID) (*domain.Canteen, error) {
	var canteen domain.Canteen
	err := r.db.WithContext(ctx).First(&canteen, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &canteen, nil
}
