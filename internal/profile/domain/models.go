// Package domain contains the user profile model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ErrProfileNotFound is a precondition failure: specials and promotions
// require a profile with a home canteen, and the caller must ensure one
// exists before requesting a recommendation context.
var ErrProfileNotFound = errors.New("profile_not_found")

type UserProfile struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID  `gorm:"not null;uniqueIndex" json:"user_id"`
	HomeCanteenID *snowflake.ID `gorm:"index" json:"home_canteen_id,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UserProfile) TableName() string { return "user_profiles" }

type Repository interface {
	// FindByUserID returns nil when the user has no profile record.
	FindByUserID(ctx context.Context, userID snowflake.ID) (*UserProfile, error)
}
