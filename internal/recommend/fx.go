package recommend

import (
	"github.com/smallbiznis/mensa/internal/cache"
	"github.com/smallbiznis/mensa/internal/recommend/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recommend",
	fx.Provide(
		cache.NewItemCache,
		service.NewService,
	),
)
