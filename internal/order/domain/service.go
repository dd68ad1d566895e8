package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Place(ctx context.Context, req PlaceOrderRequest) (*Order, error)
}

type PlaceOrderRequest struct {
	UserID snowflake.ID `json:"user_id" binding:"required"`
	FoodID snowflake.ID `json:"food_id" binding:"required"`
}

// Repository persists and reads order events.
type Repository interface {
	Insert(ctx context.Context, order *Order) error

	// ListAllPairs streams the full (user, item) history for training.
	ListAllPairs(ctx context.Context) ([]Pair, error)

	// ListItemIDsByUser returns the distinct item IDs the user has ordered.
	ListItemIDsByUser(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
}
