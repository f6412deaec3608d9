package repository

import (
	"context"

	"github.com/refacia/refacia/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, sku, name, part_number, category_id, supplier_id,
		        purchase_price, sale_price, warranty_months, active, metadata, created_at, updated_at
		 FROM products
		 WHERE sku = ?`,
		sku,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

// Upsert inserts a product or refreshes its mutable columns when the SKU
// already exists, keeping the original snowflake ID stable.
func (r *repository) Upsert(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "part_number", "category_id", "supplier_id",
			"purchase_price", "sale_price", "warranty_months", "updated_at",
		}),
	}).Create(product).Error
}

func (r *repository) SetActive(ctx context.Context, sku string, active bool) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE products SET active = ? WHERE sku = ?`,
		active,
		sku,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *repository) FindSupplierByName(ctx context.Context, name string) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, contact, phone, active, created_at, updated_at
		 FROM suppliers
		 WHERE name = ?`,
		name,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repository) CreateSupplier(ctx context.Context, supplier *domain.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, description, created_at, updated_at
		 FROM categories
		 WHERE name = ?`,
		name,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}
