package order

import (
	"github.com/smallbiznis/mensa/internal/order/repository"
	"github.com/smallbiznis/mensa/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
