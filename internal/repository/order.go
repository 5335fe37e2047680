package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tablepay/tablepay/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, table_id, items, total_amount, payment_mode, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getOrderByIDSQL = `SELECT id, table_id, items, total_amount, payment_mode, status, created_at
		FROM orders WHERE id = $1`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1
		RETURNING id, table_id, items, total_amount, payment_mode, status, created_at`
)

var _ order.Archive = (*OrderArchive)(nil)

// OrderArchive implements order.Archive backed by PostgreSQL. Line items are
// stored in a JSONB column; the rest of the snapshot maps to plain columns.
type OrderArchive struct {
	pool *pgxpool.Pool
}

// NewOrderArchive returns an OrderArchive that uses the given pool.
func NewOrderArchive(pool *pgxpool.Pool) *OrderArchive {
	return &OrderArchive{pool: pool}
}

// Insert persists a finalized order.
func (r *OrderArchive) Insert(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.TableID, itemsJSON, o.TotalAmount, o.PaymentMode, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}

	return nil
}

// FindByID returns the archived order, or order.ErrNotFound.
func (r *OrderArchive) FindByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// UpdateStatus overwrites the status of an archived order and returns the
// updated record, or order.ErrNotFound when no row matches.
func (r *OrderArchive) UpdateStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("updating order %q status: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("updating order %q status: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		items  []byte
		total  decimal.Decimal
		status string
	)
	if err := row.Scan(&o.ID, &o.TableID, &items, &total, &o.PaymentMode, &status, &o.CreatedAt); err != nil {
		return o, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.TotalAmount = total
	o.Status = order.Status(status)
	return o, nil
}
