package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tablepay/tablepay/internal/domain/menu"
)

const (
	listMenuItemsSQL = `SELECT id, name, description, price, category, image_url
		FROM menu_items ORDER BY category, name`

	insertMenuItemSQL = `INSERT INTO menu_items (id, name, description, price, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateMenuItemSQL = `UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5, image_url = $6
		WHERE id = $1`

	deleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns the full menu ordered by category and name.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// Create persists a new menu item.
func (r *MenuRepository) Create(ctx context.Context, item *menu.Item) error {
	_, err := r.pool.Exec(ctx, insertMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("inserting menu item %q: %w", item.Name, err)
	}
	return nil
}

// Update overwrites an existing menu item, or returns menu.ErrNotFound.
func (r *MenuRepository) Update(ctx context.Context, item *menu.Item) error {
	tag, err := r.pool.Exec(ctx, updateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("updating menu item %q: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Delete removes a menu item, or returns menu.ErrNotFound.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("deleting menu item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var (
		item  menu.Item
		price decimal.Decimal
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Category, &item.ImageURL)
	item.Price = price
	return item, err
}
