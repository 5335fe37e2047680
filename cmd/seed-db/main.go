// Command seed-db loads menu fixtures and the default portal users into
// PostgreSQL. Menu files may be plain JSON or gzip-compressed JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tablepay/tablepay/internal/repository"
)

type menuItemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

type portalUser struct {
	portal   string
	email    string
	password string
	name     string
}

// defaultUsers are the fixture accounts for the three dashboards.
var defaultUsers = []portalUser{
	{portal: "admin", email: "admin@tablepay.com", password: "admin_pass", name: "Lakshmi Priya"},
	{portal: "cashier", email: "cashier@tablepay.com", password: "cashier_pass", name: "Lakshmi Priya"},
	{portal: "kitchen", email: "kitchen@tablepay.com", password: "kitchen_pass", name: "Lakshmi Priya"},
}

const upsertMenuItemSQL = `INSERT INTO menu_items (id, name, description, price, category, image_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		image_url = EXCLUDED.image_url`

const upsertUserSQL = `INSERT INTO users (portal, email, password, name)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (portal, email) DO UPDATE SET
		password = EXCLUDED.password,
		name = EXCLUDED.name`

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file (.json or .json.gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(seedMenu(ctx, pool, menuFile), "seed menu")
	})
	g.Go(func() error {
		return errors.Wrap(seedUsers(ctx, pool), "seed users")
	})
	return g.Wait()
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	items, err := readMenuFile(menuFile)
	if err != nil {
		return err
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	for _, item := range items {
		_, err := pool.Exec(ctx, upsertMenuItemSQL,
			item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL)
		if err != nil {
			return errors.Wrapf(err, "upsert menu item %s", item.ID)
		}
		slog.Info("upserted menu item", slog.String("id", item.ID), slog.String("name", item.Name))
	}
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("upserting portal users", slog.Int("count", len(defaultUsers)))

	for _, u := range defaultUsers {
		_, err := pool.Exec(ctx, upsertUserSQL, u.portal, u.email, u.password, u.name)
		if err != nil {
			return errors.Wrapf(err, "upsert user %s/%s", u.portal, u.email)
		}
		slog.Info("upserted user", slog.String("portal", u.portal), slog.String("email", u.email))
	}
	return nil
}

func readMenuFile(path string) ([]menuItemJSON, error) {
	slog.Info("reading menu file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open menu file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var items []menuItemJSON
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "parse menu JSON")
	}
	return items, nil
}
