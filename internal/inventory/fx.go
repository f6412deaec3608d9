package inventory

import (
	"github.com/refacia/refacia/internal/inventory/repository"
	"github.com/refacia/refacia/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
