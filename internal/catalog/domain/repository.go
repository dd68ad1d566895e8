package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrItemNotFound    = errors.New("item_not_found")
	ErrCanteenNotFound = errors.New("canteen_not_found")
)

// Repository reads catalog state. The recommendation core never writes
// catalog rows except the popularity counter bump on order ingestion.
type Repository interface {
	GetItemByID(ctx context.Context, id snowflake.ID) (*FoodItem, error)

	// ListByPopularity returns items ordered by num_orders descending,
	// skipping the excluded IDs. limit <= 0 means no limit.
	ListByPopularity(ctx context.Context, excluded []snowflake.ID, limit int) ([]FoodItem, error)

	// ListSpecialItems returns items of the canteen flagged is_special.
	ListSpecialItems(ctx context.Context, canteenID snowflake.ID) ([]FoodItem, error)

	GetCanteen(ctx context.Context, id snowflake.ID) (*Canteen, error)
}
