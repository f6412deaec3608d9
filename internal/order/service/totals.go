package service

import "github.com/shopspring/decimal"

// ComputeTax returns the tax due on subtotal at the given fractional
// rate, rounded to 2 decimal places (currency precision). Rounding is
// half-up: decimal.Round rounds half away from zero, which is half-up
// for the non-negative amounts stored here. Rounding happens only here
// so repeated recomputation never drifts.
func ComputeTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	if subtotal.Sign() <= 0 || rate.Sign() <= 0 {
		return decimal.Zero
	}
	return subtotal.Mul(rate).Round(2)
}

// LineSubtotal returns quantity times unit price at currency precision.
func LineSubtotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
}
