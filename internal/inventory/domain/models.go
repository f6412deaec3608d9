// Package domain contains persistence models for stock tracking.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StockStatus is the three-way classification of a stock level against
// its minimum threshold. It is derived state: recomputed on every
// quantity change, never stored independently.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StatusCritical   StockStatus = "CRITICAL"
	StatusNormal     StockStatus = "NORMAL"
)

// Classify returns the status for a quantity against a minimum
// threshold. There is no hysteresis: crossing back above the minimum
// returns directly to NORMAL.
func Classify(quantity, minimum int64) StockStatus {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity <= minimum:
		return StatusCritical
	default:
		return StatusNormal
	}
}

// StockRecord tracks the on-hand quantity and thresholds for one
// product. Quantity is never negative; mutations that would drive it
// below zero are rejected before commit.
type StockRecord struct {
	ProductSKU     string     `gorm:"primaryKey;type:text"`
	Quantity       int64      `gorm:"not null;default:0"`
	Minimum        int64      `gorm:"not null;default:0"`
	Maximum        *int64     `gorm:""`
	Location       string     `gorm:"type:text"`
	LastMovementAt *time.Time `gorm:""`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (StockRecord) TableName() string { return "stock_records" }

// Status classifies the record's current quantity.
func (r StockRecord) Status() StockStatus {
	return Classify(r.Quantity, r.Minimum)
}

// MovementType distinguishes why a quantity changed.
type MovementType string

const (
	MovementReceipt     MovementType = "receipt"
	MovementFulfillment MovementType = "fulfillment"
	MovementAdjustment  MovementType = "adjustment"
)

// StockMovement is the audit row written alongside every quantity
// mutation, in the same transaction.
type StockMovement struct {
	ID                snowflake.ID `gorm:"primaryKey"`
	ProductSKU        string       `gorm:"type:text;not null;index"`
	Type              MovementType `gorm:"type:text;not null"`
	Delta             int64        `gorm:"not null"`
	ResultingQuantity int64        `gorm:"not null"`
	OccurredAt        time.Time    `gorm:"not null"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (StockMovement) TableName() string { return "stock_movements" }
