package migration

import (
	catalogdomain "github.com/refacia/refacia/internal/catalog/domain"
	"github.com/refacia/refacia/internal/config"
	invdomain "github.com/refacia/refacia/internal/inventory/domain"
	orderdomain "github.com/refacia/refacia/internal/order/domain"
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
			return RunMigrations(sqlDB)
		}

		// mysql and sqlite deployments rely on gorm's schema sync.
		return conn.AutoMigrate(
			&catalogdomain.Supplier{},
			&catalogdomain.Category{},
			&catalogdomain.Product{},
			&orderdomain.Order{},
			&orderdomain.LineItem{},
			&invdomain.StockRecord{},
			&invdomain.StockMovement{},
		)
	}),
)
