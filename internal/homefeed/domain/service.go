// Package domain defines the recommendation context exposed to the
// presentation layer.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	promotiondomain "github.com/smallbiznis/mensa/internal/promotion/domain"
	recdomain "github.com/smallbiznis/mensa/internal/recommend/domain"
)

// SpecialOffer is a specials listing entry for the user's home canteen.
type SpecialOffer struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// PromotionOffer is an active promotion visible to the user.
type PromotionOffer struct {
	Code            string                `json:"code"`
	DiscountPercent float64               `json:"discount_percent"`
	Level           promotiondomain.Level `json:"level"`
}

// Context is the composed response payload: personalized
// recommendations, canteen specials and active promotions.
type Context struct {
	Recommendations []recdomain.Entry `json:"recommendations"`
	Specials        []SpecialOffer    `json:"specials"`
	Promotions      []PromotionOffer  `json:"promotions"`
}

type Service interface {
	// BuildContext composes all three lookups for the user. Fails with
	// profile.ErrProfileNotFound when the user has no profile record;
	// everything else degrades to empty lists silently.
	BuildContext(ctx context.Context, userID snowflake.ID) (*Context, error)
}
