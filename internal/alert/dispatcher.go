package alert

import (
	"context"
	"sync"

	"github.com/refacia/refacia/internal/alert/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type DispatcherParams struct {
	fx.In

	Log *zap.Logger
}

// dispatcher fans one event out to every registered notifier. Delivery
// failures are logged and swallowed: alert emission runs after the
// stock transaction has committed and must never surface back into it.
type dispatcher struct {
	log *zap.Logger

	mu        sync.RWMutex
	notifiers []domain.Notifier
}

func NewDispatcher(p DispatcherParams) domain.Dispatcher {
	return &dispatcher{
		log: p.Log.Named("alert.dispatcher"),
	}
}

func (d *dispatcher) Register(n domain.Notifier) {
	if n == nil {
		return
	}
	d.mu.Lock()
	d.notifiers = append(d.notifiers, n)
	d.mu.Unlock()
}

func (d *dispatcher) Publish(ctx context.Context, event domain.Event) {
	d.mu.RLock()
	notifiers := make([]domain.Notifier, len(d.notifiers))
	copy(notifiers, d.notifiers)
	d.mu.RUnlock()

	for _, n := range notifiers {
		if err := n.Notify(ctx, event); err != nil {
			d.log.Error("alert notification failed",
				zap.String("event_id", event.ID.String()),
				zap.String("product_sku", event.ProductSKU),
				zap.Error(err),
			)
		}
	}
}
