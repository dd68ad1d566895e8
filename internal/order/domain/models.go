// Package domain contains the order event model. Orders are immutable
// once created and are the sole training signal for the recommender.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Order struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	FoodID    snowflake.ID `gorm:"not null;index" json:"food_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Pair is one (user, item) interaction; repeated pairs accumulate as counts.
type Pair struct {
	UserID snowflake.ID
	FoodID snowflake.ID
}
