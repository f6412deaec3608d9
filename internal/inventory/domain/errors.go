package domain

import "errors"

var (
	ErrStockNotFound    = errors.New("stock_record_not_found")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidThreshold = errors.New("invalid_threshold")
	ErrInvalidMovement  = errors.New("invalid_movement_type")
)
