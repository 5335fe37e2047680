// Package menu implements menu item management with a cache-aside read path.
package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Item is a single menu entry.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

var (
	// ErrNotFound means no menu item exists with the given id.
	ErrNotFound = errors.New("menu item not found")

	// ErrNotCached is returned by Cache.Get when no menu listing is cached.
	ErrNotCached = errors.New("menu not cached")

	// ErrInvalidID means the id is not a well-formed menu item identifier.
	ErrInvalidID = errors.New("invalid menu item id")

	ErrNameRequired     = errors.New("name required")
	ErrInvalidPrice     = errors.New("price must be greater than 0")
	ErrCategoryRequired = errors.New("category required")
)

// Repository defines durable persistence operations for menu items.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}

// Cache holds a single cached copy of the full menu listing. Get returns
// ErrNotCached on a confirmed miss; any other error means the cache tier
// could not answer.
type Cache interface {
	Get(ctx context.Context) ([]Item, error)
	Set(ctx context.Context, items []Item) error
	Invalidate(ctx context.Context) error
}
