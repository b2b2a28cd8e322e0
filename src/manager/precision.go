package manager

import (
	"strings"

	"github.com/shopspring/decimal"
)

// countDecimalPlaces derives a precision from the exchange's string
// representation of a step size: "0.0001" -> 4, "0.1" -> 1, "1" -> 0.
func countDecimalPlaces(step string) int32 {
	if i := strings.IndexByte(step, '.'); i >= 0 {
		return int32(len(step) - i - 1)
	}
	return 0
}

// roundToPrecision truncates toward zero. Quantities must never round up:
// an overshoot past the available balance gets the order rejected.
func roundToPrecision(value decimal.Decimal, precision int32) decimal.Decimal {
	return value.RoundFloor(precision)
}
