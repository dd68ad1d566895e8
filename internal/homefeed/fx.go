package homefeed

import (
	"github.com/smallbiznis/mensa/internal/homefeed/service"
	"go.uber.org/fx"
)

var Module = fx.Module("homefeed",
	fx.Provide(service.NewService),
)
