// Package domain contains persistence models for customer orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order aggregates line items for one customer purchase. Subtotal, Tax
// and Total are derived state: they are written only by the totals
// recomputation inside line-item transactions and always satisfy
// subtotal = sum(line subtotals), tax = round(subtotal * rate, 2),
// total = subtotal + tax.
type Order struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	CustomerID *snowflake.ID     `gorm:"index"`
	Status     OrderStatus       `gorm:"type:text;not null;default:'pending'"`
	Subtotal   decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	Tax        decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	Total      decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// LineItem is one product entry on an order. Subtotal is always
// quantity times unit price, enforced at write time. Lines are owned by
// their order and removed with it.
type LineItem struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	OrderID    snowflake.ID    `gorm:"not null;index"`
	ProductSKU string          `gorm:"type:text;not null;index"`
	Quantity   int64           `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "order_line_items" }
