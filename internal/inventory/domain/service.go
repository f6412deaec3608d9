package domain

import "context"

// ApplyRequest is one inventory movement: a signed delta against the
// current quantity.
type ApplyRequest struct {
	ProductSKU string
	Type       MovementType
	Delta      int64
}

// Service maintains stock-status consistency. Every quantity mutation
// runs in one transaction against the locked stock record; the
// classification is recomputed from the post-mutation quantity and, for
// CRITICAL or OUT_OF_STOCK, exactly one alert event is emitted after
// the transaction commits.
type Service interface {
	Upsert(ctx context.Context, record *StockRecord) error
	Get(ctx context.Context, sku string) (*StockRecord, error)
	Apply(ctx context.Context, req ApplyRequest) (*StockRecord, error)
	Set(ctx context.Context, sku string, quantity int64) (*StockRecord, error)
	ListCritical(ctx context.Context) ([]StockRecord, error)
	ListMovements(ctx context.Context, sku string) ([]StockMovement, error)
}
