// Package domain contains promotion models. A promotion is scoped to
// exactly one of a canteen (local) or a chain (national), never both.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Level string

const (
	LevelLocal    Level = "local"
	LevelNational Level = "national"
)

type Promotion struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	Code            string        `gorm:"type:text;not null" json:"code"`
	DiscountPercent float64       `gorm:"not null" json:"discount_percent"`
	CanteenID       *snowflake.ID `gorm:"index" json:"canteen_id,omitempty"`
	ChainID         *snowflake.ID `gorm:"index" json:"chain_id,omitempty"`
	Level           Level         `gorm:"type:text;not null" json:"level"`
	ValidFrom       time.Time     `gorm:"not null" json:"valid_from"`
	ValidTo         time.Time     `gorm:"not null" json:"valid_to"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Promotion) TableName() string { return "promotions" }

// Repository reads promotion records. The validity interval is inclusive
// on both ends; `on` is expected to be a date truncated to midnight UTC.
type Repository interface {
	ListActiveLocal(ctx context.Context, canteenID snowflake.ID, on time.Time) ([]Promotion, error)
	ListActiveNational(ctx context.Context, chainID snowflake.ID, on time.Time) ([]Promotion, error)
}
