package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemInput holds the mutable fields of a menu item.
type ItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
}

// Service encapsulates menu management. Reads are cache-aside and every cache
// failure is fail-open: logged, then served from the repository. Losing the
// cache must never take the menu down.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a menu Service over a repository and a cache.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// List returns all menu items, preferring the cached listing and refilling
// the cache best-effort after a repository read.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.cache.Get(ctx)
	switch {
	case err == nil:
		return items, nil
	case !errors.Is(err, ErrNotCached):
		zctx.From(ctx).Warn("Menu cache read failed", zap.Error(err))
	}

	items, err = s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}

	if len(items) > 0 {
		if err := s.cache.Set(ctx, items); err != nil {
			zctx.From(ctx).Warn("Menu cache fill failed", zap.Error(err))
		}
	}
	return items, nil
}

// Create validates and persists a new menu item, then invalidates the cached
// listing.
func (s *Service) Create(ctx context.Context, input ItemInput) (*Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item := &Item{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, errors.Wrapf(err, "create menu item %q", input.Name)
	}

	s.invalidate(ctx)
	return item, nil
}

// Update overwrites an existing menu item and invalidates the cached listing.
func (s *Service) Update(ctx context.Context, id string, input ItemInput) (*Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item := &Item{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "update menu item %s", id)
	}

	s.invalidate(ctx)
	return item, nil
}

// Delete removes a menu item and invalidates the cached listing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "delete menu item %s", id)
	}

	s.invalidate(ctx)
	return nil
}

// invalidate drops the cached listing best-effort after a mutation.
func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		zctx.From(ctx).Warn("Menu cache invalidation failed", zap.Error(err))
	}
}

func validateInput(input ItemInput) error {
	if input.Name == "" {
		return ErrNameRequired
	}
	if !input.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if input.Category == "" {
		return ErrCategoryRequired
	}
	return nil
}
