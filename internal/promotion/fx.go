package promotion

import (
	"github.com/smallbiznis/mensa/internal/promotion/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("promotion",
	fx.Provide(repository.Provide),
)
