package manager

import "errors"

var (
	// ErrInstrumentNotFound means the instrument lookup returned no entry
	// for the requested symbol, so no precision can be resolved.
	ErrInstrumentNotFound = errors.New("instrument metadata not found")

	// ErrOrderNotFilled means the order has no average fill price yet, so
	// dependent TP/SL prices cannot be derived from it.
	ErrOrderNotFilled = errors.New("order has no average fill price")
)
