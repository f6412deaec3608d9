package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/refacia/refacia/internal/order/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, customer_id, status, subtotal, tax, total, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.CustomerID,
		order.Status,
		order.Subtotal,
		order.Tax,
		order.Total,
		order.Metadata,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, status, subtotal, tax, total, metadata, created_at, updated_at
		 FROM orders
		 WHERE id = ?`,
		id,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repository) LockOrder(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, status, subtotal, tax, total, metadata, created_at, updated_at
		 FROM orders
		 WHERE id = ?
		 FOR UPDATE`,
		id,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repository) UpdateTotals(ctx context.Context, db *gorm.DB, id snowflake.ID, subtotal, tax, total decimal.Decimal, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET subtotal = ?, tax = ?, total = ?, updated_at = ?
		 WHERE id = ?`,
		subtotal,
		tax,
		total,
		updatedAt,
		id,
	).Error
}

func (r *repository) DeleteOrder(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM orders WHERE id = ?`,
		id,
	).Error
}

func (r *repository) ListLines(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.LineItem, error) {
	var lines []domain.LineItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, product_sku, quantity, unit_price, subtotal, created_at, updated_at
		 FROM order_line_items
		 WHERE order_id = ?
		 ORDER BY id ASC`,
		orderID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) InsertLine(ctx context.Context, db *gorm.DB, line *domain.LineItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO order_line_items (id, order_id, product_sku, quantity, unit_price, subtotal, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.OrderID,
		line.ProductSKU,
		line.Quantity,
		line.UnitPrice,
		line.Subtotal,
		line.CreatedAt,
		line.UpdatedAt,
	).Error
}

func (r *repository) UpdateLine(ctx context.Context, db *gorm.DB, line *domain.LineItem) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE order_line_items
		 SET quantity = ?, unit_price = ?, subtotal = ?, updated_at = ?
		 WHERE id = ? AND order_id = ?`,
		line.Quantity,
		line.UnitPrice,
		line.Subtotal,
		line.UpdatedAt,
		line.ID,
		line.OrderID,
	)
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteLine(ctx context.Context, db *gorm.DB, orderID, lineID snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM order_line_items WHERE id = ? AND order_id = ?`,
		lineID,
		orderID,
	)
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteLinesByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM order_line_items WHERE order_id = ?`,
		orderID,
	).Error
}
