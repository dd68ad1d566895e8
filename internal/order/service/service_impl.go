package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	obsmetrics "github.com/smallbiznis/mensa/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Catalog catalogdomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	catalog catalogdomain.Repository
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) orderdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		catalog: p.Catalog,
		metrics: p.Metrics,
	}
}

// Place records an order event and bumps the item's popularity counter.
// The counter feeds the popularity fallback; the event feeds training.
func (s *Service) Place(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error) {
	item, err := s.catalog.GetItemByID(ctx, req.FoodID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, catalogdomain.ErrItemNotFound
	}

	order := &orderdomain.Order{
		ID:     s.genID.Generate(),
		UserID: req.UserID,
		FoodID: req.FoodID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Model(&catalogdomain.FoodItem{}).
			Where("id = ?", req.FoodID).
			UpdateColumn("num_orders", gorm.Expr("num_orders + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx)
	s.log.Debug("order placed",
		zap.Int64("user_id", int64(order.UserID)),
		zap.Int64("food_id", int64(order.FoodID)),
	)

	return order, nil
}
