package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository is transaction-aware: every call receives the gorm handle
// to run against.
type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, record *StockRecord) error
	FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*StockRecord, error)
	// LockBySKU loads the stock record under a row-level lock for the
	// duration of the surrounding transaction.
	LockBySKU(ctx context.Context, db *gorm.DB, sku string) (*StockRecord, error)
	UpdateQuantity(ctx context.Context, db *gorm.DB, sku string, quantity int64, movedAt, updatedAt time.Time) error
	InsertMovement(ctx context.Context, db *gorm.DB, movement *StockMovement) error
	ListCritical(ctx context.Context, db *gorm.DB) ([]StockRecord, error)
}
