package domain

import "errors"

var (
	ErrOrderNotFound    = errors.New("order_not_found")
	ErrLineNotFound     = errors.New("line_item_not_found")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
)
