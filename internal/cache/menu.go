package cache

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/tablepay/tablepay/internal/domain/menu"
)

// menuKey holds the single cached copy of the full menu listing.
const menuKey = "cached_menu_items"

var _ menu.Cache = (*Menu)(nil)

// Menu implements menu.Cache on Redis. The listing is cached whole and
// invalidated on any menu mutation; there is no per-item caching.
type Menu struct {
	rdb *redis.Client
}

// NewMenu returns a Menu cache using the given client.
func NewMenu(rdb *redis.Client) *Menu {
	return &Menu{rdb: rdb}
}

func (c *Menu) Get(ctx context.Context) ([]menu.Item, error) {
	raw, err := c.rdb.Get(ctx, menuKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, menu.ErrNotCached
	}
	if err != nil {
		return nil, errors.Wrap(err, "get menu cache")
	}

	var items []menu.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, errors.Wrap(err, "unmarshal menu cache")
	}
	return items, nil
}

func (c *Menu) Set(ctx context.Context, items []menu.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "marshal menu cache")
	}
	if err := c.rdb.Set(ctx, menuKey, raw, 0).Err(); err != nil {
		return errors.Wrap(err, "set menu cache")
	}
	return nil
}

func (c *Menu) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, menuKey).Err(); err != nil {
		return errors.Wrap(err, "del menu cache")
	}
	return nil
}
