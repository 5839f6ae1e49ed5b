package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var ErrUnknownProduct = errors.New("unknown product")

// CatalogEntry is the sellable view of a course or bundle.
type CatalogEntry struct {
	ID    string
	Kind  string
	Title string
	Price decimal.Decimal
}

type Catalog interface {
	Lookup(ctx context.Context, kind, id string) (CatalogEntry, error)
}

// RowQuerier matches the QueryRow method of *pgxpool.Pool.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresCatalog struct {
	pool RowQuerier
}

func NewPostgresCatalog(pool RowQuerier) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

const lookupCatalogSQL = `SELECT id, kind, title, price FROM catalog_items WHERE kind = $1 AND id = $2 AND active`

func (c *PostgresCatalog) Lookup(ctx context.Context, kind, id string) (CatalogEntry, error) {
	var e CatalogEntry
	err := c.pool.QueryRow(ctx, lookupCatalogSQL, kind, id).Scan(&e.ID, &e.Kind, &e.Title, &e.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogEntry{}, ErrUnknownProduct
		}
		return CatalogEntry{}, fmt.Errorf("select catalog item: %w", err)
	}
	return e, nil
}
