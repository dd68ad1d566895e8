package cache

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
)

const defaultItemTTL = 10 * time.Minute

// ItemCache stores hot-path catalog lookups for candidate resolution.
type ItemCache interface {
	Get(id snowflake.ID) (*catalogdomain.FoodItem, bool)
	Set(id snowflake.ID, item *catalogdomain.FoodItem)
}

type itemCache struct {
	items Cache[snowflake.ID, *catalogdomain.FoodItem]
	ttl   time.Duration
}

// NewItemCache returns an in-memory cache tuned for recommendation serving.
func NewItemCache() ItemCache {
	return &itemCache{
		items: NewTTLCache[snowflake.ID, *catalogdomain.FoodItem](),
		ttl:   defaultItemTTL,
	}
}

func (c *itemCache) Get(id snowflake.ID) (*catalogdomain.FoodItem, bool) {
	return c.items.Get(id)
}

func (c *itemCache) Set(id snowflake.ID, item *catalogdomain.FoodItem) {
	if item == nil {
		return
	}
	c.items.Set(id, item, c.ttl)
}
