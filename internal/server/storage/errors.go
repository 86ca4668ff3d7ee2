package storage

import "errors"

// Common storage errors
var (
	// ErrEntityNotFound indicates that entity was not found in storage
	ErrEntityNotFound = errors.New("entity not found")

	// ErrLedgerKeyNotFound indicates that the idempotency key was never recorded
	ErrLedgerKeyNotFound = errors.New("idempotency key not found")

	// ErrLedgerKeyCompleted indicates an attempt to change a completed ledger entry
	ErrLedgerKeyCompleted = errors.New("idempotency key is already completed")
)
