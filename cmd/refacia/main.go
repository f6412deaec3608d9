package main

import (
	"context"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/refacia/refacia/internal/alert"
	"github.com/refacia/refacia/internal/cache"
	"github.com/refacia/refacia/internal/catalog"
	"github.com/refacia/refacia/internal/clock"
	"github.com/refacia/refacia/internal/config"
	"github.com/refacia/refacia/internal/importer"
	"github.com/refacia/refacia/internal/inventory"
	"github.com/refacia/refacia/internal/metrics"
	"github.com/refacia/refacia/internal/migration"
	"github.com/refacia/refacia/internal/order"
	"github.com/refacia/refacia/pkg/db"
	"github.com/refacia/refacia/pkg/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		cache.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		alert.Module,
		catalog.Module,
		inventory.Module,
		order.Module,
		importer.Module,

		fx.Invoke(runStartupImport),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func runStartupImport(cfg config.Config, imp *importer.Importer, logger *zap.Logger) error {
	if cfg.ImportFile == "" {
		return nil
	}

	file, err := os.Open(cfg.ImportFile)
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := imp.Run(context.Background(), file)
	if err != nil {
		return err
	}
	logger.Info("startup import complete",
		zap.String("file", cfg.ImportFile),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
	)
	return nil
}
