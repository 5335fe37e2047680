// Package order implements the active-order lifecycle: how an order moves
// from creation through kitchen-visible states to a finalized, durable
// record, coordinated across a volatile snapshot store and a durable archive.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the kitchen-visible lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
)

// ParseStatus validates a raw status value against the lifecycle set.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusPreparing, StatusReady, StatusServed:
		return st, nil
	default:
		return "", &InvalidStatusError{Status: s}
	}
}

// Terminal reports whether the status ends the lifecycle. A served order is
// immutable except for idempotent re-confirmation of "served".
func (s Status) Terminal() bool {
	return s == StatusServed
}

// LineItem is a single ordered item. The JSON tags define the snapshot format
// used in both storage tiers.
type LineItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is the central entity. While non-terminal it lives only in the
// volatile tier; once served it lives only in the archive.
type Order struct {
	ID          string          `json:"id"`
	TableID     string          `json:"table_id"`
	Items       []LineItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Sentinel errors shared by the service and its stores.
var (
	// ErrNotFound means the order exists in neither tier.
	ErrNotFound = errors.New("order not found")

	// ErrNotActive is returned by ActiveStore.Get when the key is absent.
	// Stores must return it only for a confirmed miss; any other error
	// means the tier could not answer.
	ErrNotActive = errors.New("order not in active store")
)

// ActiveStore is the volatile tier holding snapshots of orders that have not
// been finalized. Implementations must distinguish an absent key
// (ErrNotActive) from an unreachable tier (any other error).
type ActiveStore interface {
	Put(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]Order, error)
}

// Archive is the durable tier. Orders are inserted exactly once, at
// finalization, and are never deleted by this package.
type Archive interface {
	Insert(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}
