package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	CustomerID *snowflake.ID
	Metadata   map[string]any
}

type ListOrdersRequest struct {
	Status     OrderStatus
	CustomerID *snowflake.ID
}

type AddLineRequest struct {
	ProductSKU string
	Quantity   int64
	UnitPrice  decimal.Decimal
}

type UpdateLineRequest struct {
	LineID    snowflake.ID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Service maintains order totals. Every line-item mutation runs in one
// transaction with a recomputation of the owning order's totals; the
// order row lock is the unit of serialization, so concurrent mutations
// against the same order never read a stale line set.
type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, error)
	ListLines(ctx context.Context, orderID snowflake.ID) ([]LineItem, error)
	Delete(ctx context.Context, id snowflake.ID) error

	AddLine(ctx context.Context, orderID snowflake.ID, req AddLineRequest) (*LineItem, error)
	UpdateLine(ctx context.Context, orderID snowflake.ID, req UpdateLineRequest) (*LineItem, error)
	RemoveLine(ctx context.Context, orderID, lineID snowflake.ID) error

	// Recompute re-derives subtotal, tax and total from the current line
	// set. Idempotent; safe to call redundantly.
	Recompute(ctx context.Context, orderID snowflake.ID) (*Order, error)
}
