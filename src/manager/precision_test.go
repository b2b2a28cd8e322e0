package manager

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCountDecimalPlaces(t *testing.T) {
	tests := []struct {
		step     string
		expected int32
	}{
		{"0.0001", 4},
		{"0.1", 1},
		{"1", 0},
		{"0.000001", 6},
		{"10", 0},
		{"0.01", 2},
	}

	for _, tt := range tests {
		if got := countDecimalPlaces(tt.step); got != tt.expected {
			t.Fatalf("expected %s -> %d, got %d", tt.step, tt.expected, got)
		}
	}
}

func TestRoundToPrecision_TruncatesTowardZero(t *testing.T) {
	tests := []struct {
		value     string
		precision int32
		expected  string
	}{
		{"1.23456", 2, "1.23"},
		{"1.239", 2, "1.23"},
		{"0.00239", 4, "0.0023"},
		{"5", 2, "5"},
		{"0", 4, "0"},
	}

	for _, tt := range tests {
		value := decimal.RequireFromString(tt.value)
		got := roundToPrecision(value, tt.precision)
		if !got.Equal(decimal.RequireFromString(tt.expected)) {
			t.Fatalf("expected floor(%s, %d) = %s, got %s", tt.value, tt.precision, tt.expected, got)
		}
	}
}
