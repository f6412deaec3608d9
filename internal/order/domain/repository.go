package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository is transaction-aware: every call receives the gorm handle
// to run against, so service transactions and plain reads share one
// implementation.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	// LockOrder loads the order under a row-level lock (SELECT ... FOR
	// UPDATE) for the duration of the surrounding transaction.
	LockOrder(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	UpdateTotals(ctx context.Context, db *gorm.DB, id snowflake.ID, subtotal, tax, total decimal.Decimal, updatedAt time.Time) error
	DeleteOrder(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	ListLines(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]LineItem, error)
	InsertLine(ctx context.Context, db *gorm.DB, line *LineItem) error
	UpdateLine(ctx context.Context, db *gorm.DB, line *LineItem) (int64, error)
	DeleteLine(ctx context.Context, db *gorm.DB, orderID, lineID snowflake.ID) (int64, error)
	DeleteLinesByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) error
}
