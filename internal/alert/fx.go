package alert

import (
	"github.com/refacia/refacia/internal/alert/domain"
	"github.com/refacia/refacia/internal/config"
	"github.com/refacia/refacia/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("alert",
	slack.Module,
	fx.Provide(NewDispatcher),
	fx.Invoke(registerNotifiers),
)

func registerNotifiers(d domain.Dispatcher, log *zap.Logger, provider slack.Provider, cfg config.Config) {
	d.Register(NewLogNotifier(log))
	if cfg.SlackWebhookURL != "" {
		d.Register(NewSlackNotifier(provider, cfg.SlackAlertChannel))
	}
}
