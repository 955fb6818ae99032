package domain

import "errors"

// Error taxonomy for ledger operations. Validation errors surface before
// any store I/O; ErrPersistence wraps store-level failures after the unit
// of work has been rolled back. Callers match with errors.Is.
var (
	// ErrInvalidArgument indicates a bad amount, quantity, date or kind.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds indicates a cash shortfall on a withdrawal or buy.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares indicates a sale exceeding the current holding.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrUnknownTicker indicates the price source has no data for a symbol.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrPersistence indicates a store-level failure; the enclosing unit of
	// work has been rolled back in full before this error is reported.
	ErrPersistence = errors.New("persistence failure")
)
