package catalog

import (
	"github.com/refacia/refacia/internal/catalog/repository"
	"github.com/refacia/refacia/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
