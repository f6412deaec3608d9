package domain

import "context"

// Service is the catalog surface consumed by inventory, orders and the
// importer. Master-data validation beyond identity is out of scope.
type Service interface {
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	ResolveName(ctx context.Context, sku string) (string, error)
	Upsert(ctx context.Context, product *Product) error
	Deactivate(ctx context.Context, sku string) error
	EnsureSupplier(ctx context.Context, name string) (*Supplier, error)
	EnsureCategory(ctx context.Context, name string) (*Category, error)
}

type Repository interface {
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Upsert(ctx context.Context, product *Product) error
	SetActive(ctx context.Context, sku string, active bool) error
	FindSupplierByName(ctx context.Context, name string) (*Supplier, error)
	CreateSupplier(ctx context.Context, supplier *Supplier) error
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
}
