package alert

import (
	"context"

	"github.com/refacia/refacia/internal/alert/domain"
	"go.uber.org/zap"
)

// logNotifier writes alert events to the structured log. It is always
// registered so every alert leaves at least one durable trace.
type logNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) domain.Notifier {
	return &logNotifier{log: log.Named("alert.log")}
}

func (n *logNotifier) Notify(_ context.Context, event domain.Event) error {
	n.log.Warn("stock alert",
		zap.String("event_id", event.ID.String()),
		zap.String("product_sku", event.ProductSKU),
		zap.String("product_name", event.ProductName),
		zap.Int64("quantity", event.Quantity),
		zap.Int64("minimum", event.Minimum),
		zap.String("status", event.Status),
		zap.String("location", event.Location),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
