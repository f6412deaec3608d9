// Package domain contains persistence models for the parts catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is one sellable auto part. SKU is the business key used by
// orders and inventory; the snowflake ID is internal.
type Product struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	SKU            string            `gorm:"type:text;not null;uniqueIndex:ux_products_sku"`
	Name           string            `gorm:"type:text;not null"`
	PartNumber     string            `gorm:"type:text"`
	CategoryID     *snowflake.ID     `gorm:"index"`
	SupplierID     *snowflake.ID     `gorm:"index"`
	PurchasePrice  decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	SalePrice      decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WarrantyMonths int               `gorm:"not null;default:12"`
	Active         bool              `gorm:"not null;default:true"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// Supplier is a parts vendor.
type Supplier struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_suppliers_name"`
	Contact   string       `gorm:"type:text"`
	Phone     string       `gorm:"type:text"`
	Active    bool         `gorm:"not null;default:true"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Supplier) TableName() string { return "suppliers" }

// Category groups products (filters, brakes, electrical, ...).
type Category struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_categories_name"`
	Description *string      `gorm:"type:text"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }
