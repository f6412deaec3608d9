package alert

import (
	"context"
	"fmt"

	"github.com/refacia/refacia/internal/alert/domain"
	"github.com/refacia/refacia/internal/providers/slack"
)

type slackNotifier struct {
	provider slack.Provider
	channel  string
}

func NewSlackNotifier(provider slack.Provider, channel string) domain.Notifier {
	return &slackNotifier{provider: provider, channel: channel}
}

func (n *slackNotifier) Notify(ctx context.Context, event domain.Event) error {
	message := fmt.Sprintf(
		"[%s] %s (%s): %d on hand, minimum %d",
		event.Status,
		event.ProductName,
		event.ProductSKU,
		event.Quantity,
		event.Minimum,
	)
	if event.Location != "" {
		message += fmt.Sprintf(" at %s", event.Location)
	}
	return n.provider.PostMessage(ctx, n.channel, message)
}
