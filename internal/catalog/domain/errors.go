package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrInvalidSKU      = errors.New("invalid_sku")
	ErrInvalidName     = errors.New("invalid_name")
)
