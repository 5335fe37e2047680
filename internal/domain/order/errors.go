package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for create-request validation.
var (
	ErrTableRequired       = errors.New("table id required")
	ErrEmptyItems          = errors.New("items required")
	ErrInvalidTotal        = errors.New("total amount must be greater than 0")
	ErrPaymentModeRequired = errors.New("payment mode required")
)

// InvalidQuantityError indicates a line item with a quantity below 1.
type InvalidQuantityError struct {
	Name string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for item %q", e.Name)
}

// InvalidPriceError indicates a line item with a non-positive unit price.
type InvalidPriceError struct {
	Name string
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("price must be greater than 0 for item %q", e.Name)
}

// InvalidStatusError indicates a status value outside the lifecycle set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q: must be one of pending, preparing, ready, served", e.Status)
}

// StoreUnavailableError means the volatile tier could not confirm a write at
// creation. The order was not placed; there is no durable fallback.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("active order store unavailable: %s", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// PersistError means the durable write during finalization failed. The
// volatile snapshot is left untouched so the caller can retry.
type PersistError struct {
	ID  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist order %s: %s", e.ID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// AlreadyCompletedError means a non-served transition was requested for an
// order that already reached its terminal state. The order cannot be
// reopened by a lifecycle update.
type AlreadyCompletedError struct {
	ID     string
	Status Status
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("order %s is already completed (status: %s)", e.ID, e.Status)
}
