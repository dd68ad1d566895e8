// Package domain contains persistence models for the canteen catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Chain is a canteen operator running one or more canteens.
type Chain struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Chain) TableName() string { return "chains" }

// Canteen is a single location; ChainID is nil for independent canteens.
type Canteen struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"type:text;not null" json:"name"`
	ChainID   *snowflake.ID `gorm:"index" json:"chain_id,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Canteen) TableName() string { return "canteens" }

// FoodItem is a menu entry. NumOrders is the running popularity counter
// maintained by order ingestion and read by the popularity fallback.
type FoodItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CanteenID snowflake.ID `gorm:"not null;index" json:"canteen_id"`
	Title     string       `gorm:"type:text;not null" json:"title"`
	Price     float64      `gorm:"not null" json:"price"`
	NumOrders int64        `gorm:"not null;default:0;index" json:"num_orders"`
	Category  string       `gorm:"type:text" json:"category"`
	AvgRating float64      `gorm:"not null;default:0" json:"avg_rating"`
	NumRating int64        `gorm:"not null;default:0" json:"num_rating"`
	Tags      string       `gorm:"type:text" json:"tags"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (FoodItem) TableName() string { return "food_items" }

// SpecialItem flags a food item as new or special for promotional visibility.
type SpecialItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	FoodID    snowflake.ID `gorm:"not null;index" json:"food_id"`
	IsSpecial bool         `gorm:"not null;default:false" json:"is_special"`
	DateAdded time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"date_added"`
}

// TableName sets the database table name.
func (SpecialItem) TableName() string { return "special_items" }
