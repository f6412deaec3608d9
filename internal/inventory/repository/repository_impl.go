package repository

import (
	"context"
	"time"

	"github.com/refacia/refacia/internal/inventory/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

func NewRepository() domain.Repository {
	return &repository{}
}

// Upsert inserts a stock record or refreshes quantity, thresholds and
// location when the SKU already exists.
func (r *repository) Upsert(ctx context.Context, db *gorm.DB, record *domain.StockRecord) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity", "minimum", "maximum", "location", "updated_at",
		}),
	}).Create(record).Error
}

func (r *repository) FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*domain.StockRecord, error) {
	var rec domain.StockRecord
	err := db.WithContext(ctx).Raw(
		`SELECT product_sku, quantity, minimum, maximum, location, last_movement_at, created_at, updated_at
		 FROM stock_records
		 WHERE product_sku = ?`,
		sku,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ProductSKU == "" {
		return nil, nil
	}
	return &rec, nil
}

func (r *repository) LockBySKU(ctx context.Context, db *gorm.DB, sku string) (*domain.StockRecord, error) {
	var rec domain.StockRecord
	err := db.WithContext(ctx).Raw(
		`SELECT product_sku, quantity, minimum, maximum, location, last_movement_at, created_at, updated_at
		 FROM stock_records
		 WHERE product_sku = ?
		 FOR UPDATE`,
		sku,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ProductSKU == "" {
		return nil, nil
	}
	return &rec, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, db *gorm.DB, sku string, quantity int64, movedAt, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE stock_records
		 SET quantity = ?, last_movement_at = ?, updated_at = ?
		 WHERE product_sku = ?`,
		quantity,
		movedAt,
		updatedAt,
		sku,
	).Error
}

func (r *repository) InsertMovement(ctx context.Context, db *gorm.DB, movement *domain.StockMovement) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO stock_movements (id, product_sku, type, delta, resulting_quantity, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		movement.ID,
		movement.ProductSKU,
		movement.Type,
		movement.Delta,
		movement.ResultingQuantity,
		movement.OccurredAt,
		movement.CreatedAt,
	).Error
}

func (r *repository) ListCritical(ctx context.Context, db *gorm.DB) ([]domain.StockRecord, error) {
	var records []domain.StockRecord
	err := db.WithContext(ctx).Raw(
		`SELECT product_sku, quantity, minimum, maximum, location, last_movement_at, created_at, updated_at
		 FROM stock_records
		 WHERE quantity <= minimum
		 ORDER BY quantity ASC, product_sku ASC`,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
