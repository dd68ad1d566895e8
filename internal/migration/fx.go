package migration

import (
	catalogdomain "github.com/smallbiznis/mensa/internal/catalog/domain"
	"github.com/smallbiznis/mensa/internal/config"
	orderdomain "github.com/smallbiznis/mensa/internal/order/domain"
	profiledomain "github.com/smallbiznis/mensa/internal/profile/domain"
	promotiondomain "github.com/smallbiznis/mensa/internal/promotion/domain"
	"github.com/smallbiznis/mensa/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite/mysql dev setups get the schema from the models.
			if err := conn.AutoMigrate(
				&catalogdomain.Chain{},
				&catalogdomain.Canteen{},
				&catalogdomain.FoodItem{},
				&catalogdomain.SpecialItem{},
				&profiledomain.UserProfile{},
				&promotiondomain.Promotion{},
				&orderdomain.Order{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)
