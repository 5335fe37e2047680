package cache

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tablepay/tablepay/internal/domain/order"
)

// activeOrderPrefix namespaces the volatile snapshots of orders that have
// not been finalized.
const activeOrderPrefix = "active_order:"

// scanBatchSize is the COUNT hint for SCAN when listing active orders.
const scanBatchSize = 100

var _ order.ActiveStore = (*ActiveOrders)(nil)

// ActiveOrders implements order.ActiveStore on Redis. Snapshots are JSON
// documents under active_order:<id>; entries have no TTL and leave the tier
// only through finalization.
type ActiveOrders struct {
	rdb *redis.Client
}

// NewActiveOrders returns an ActiveOrders store using the given client.
func NewActiveOrders(rdb *redis.Client) *ActiveOrders {
	return &ActiveOrders{rdb: rdb}
}

// Put writes the full order snapshot, overwriting any previous one.
func (s *ActiveOrders) Put(ctx context.Context, o *order.Order) error {
	snapshot, err := json.Marshal(o)
	if err != nil {
		return errors.Wrapf(err, "marshal snapshot %s", o.ID)
	}
	if err := s.rdb.Set(ctx, activeOrderPrefix+o.ID, snapshot, 0).Err(); err != nil {
		return errors.Wrapf(err, "set %s%s", activeOrderPrefix, o.ID)
	}
	return nil
}

// Get returns the snapshot for id, or order.ErrNotActive on a confirmed miss.
func (s *ActiveOrders) Get(ctx context.Context, id string) (*order.Order, error) {
	raw, err := s.rdb.Get(ctx, activeOrderPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, order.ErrNotActive
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s%s", activeOrderPrefix, id)
	}

	var o order.Order
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return nil, errors.Wrapf(err, "unmarshal snapshot %s", id)
	}
	return &o, nil
}

// Delete removes the snapshot for id. Deleting an absent key is not an error.
func (s *ActiveOrders) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, activeOrderPrefix+id).Err(); err != nil {
		return errors.Wrapf(err, "del %s%s", activeOrderPrefix, id)
	}
	return nil
}

// ListAll returns every active order snapshot, batching retrieval with
// SCAN + MGET. Snapshots that fail to decode are logged and skipped so one
// corrupt record cannot break the whole listing.
func (s *ActiveOrders) ListAll(ctx context.Context) ([]order.Order, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, activeOrderPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "scan active orders")
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "mget active orders")
	}

	lg := zctx.From(ctx)
	orders := make([]order.Order, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Key vanished between SCAN and MGET.
			continue
		}
		var o order.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			lg.Warn("Skipping corrupt active order snapshot",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}
