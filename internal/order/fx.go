package order

import (
	"github.com/refacia/refacia/internal/order/repository"
	"github.com/refacia/refacia/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
