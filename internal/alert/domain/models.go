// Package domain defines the stock alert event and its delivery contract.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is emitted when a stock record enters a critical or depleted
// state. Events are notifications only; the core never persists them.
type Event struct {
	ID          uuid.UUID `json:"id"`
	ProductSKU  string    `json:"product_sku"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	Minimum     int64     `json:"minimum"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Notifier receives alert events. Implementations must tolerate being
// called after the originating transaction has committed; a failed
// delivery is reported to the dispatcher, never to the mutating caller.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Dispatcher is the subscription point exposed to callers.
type Dispatcher interface {
	Register(n Notifier)
	Publish(ctx context.Context, event Event)
}
