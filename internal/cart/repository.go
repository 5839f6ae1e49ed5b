package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID string, it Item) error
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) (bool, error)
	RemoveItem(ctx context.Context, userID, itemID string) (bool, error)
	SetCoupon(ctx context.Context, userID, code string) error
	ClearCart(ctx context.Context, userID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const (
	selectCartSQL  = `SELECT id, user_id, coupon_code, updated_at FROM carts WHERE user_id = $1`
	selectItemsSQL = `SELECT id, course_id, bundle_id, title, quantity, unit_price, created_at
FROM cart_items WHERE cart_id = $1 ORDER BY created_at, id`
)

func (r *repo) GetCart(ctx context.Context, userID string) (*Cart, error) {
	var (
		c      Cart
		coupon sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectCartSQL, userID).Scan(&c.ID, &c.UserID, &coupon, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}
	c.CouponCode = coupon.String

	rows, err := r.db.QueryContext(ctx, selectItemsSQL, c.ID)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it             Item
			course, bundle sql.NullString
		)
		if err := rows.Scan(&it.ID, &course, &bundle, &it.Title, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		it.CourseID = nullableString(course)
		it.BundleID = nullableString(bundle)
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &c, nil
}

const (
	upsertCartSQL = `
INSERT INTO carts (id, user_id, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE
SET updated_at = NOW()
RETURNING id
`
	bumpItemSQL = `
UPDATE cart_items
SET quantity = quantity + $4
WHERE cart_id = $1
  AND course_id IS NOT DISTINCT FROM $2
  AND bundle_id IS NOT DISTINCT FROM $3
`
	insertItemSQL = `
INSERT INTO cart_items (id, cart_id, course_id, bundle_id, title, quantity, unit_price, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
`
)

// AddItem creates the cart if needed. Adding a course or bundle that is
// already in the cart increases its quantity.
func (r *repo) AddItem(ctx context.Context, userID string, it Item) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var cartID string
	if err = tx.QueryRowContext(ctx, upsertCartSQL, uuid.NewString(), userID).Scan(&cartID); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	res, err := tx.ExecContext(ctx, bumpItemSQL, cartID, it.CourseID, it.BundleID, it.Quantity)
	if err != nil {
		return fmt.Errorf("bump cart_item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, insertItemSQL,
			it.ID, cartID, it.CourseID, it.BundleID, it.Title, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("insert cart_item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const (
	setQuantitySQL = `
UPDATE cart_items ci
SET quantity = $3
FROM carts c
WHERE ci.cart_id = c.id AND c.user_id = $1 AND ci.id = $2
`
	removeItemSQL = `
DELETE FROM cart_items ci
USING carts c
WHERE ci.cart_id = c.id AND c.user_id = $1 AND ci.id = $2
`
)

// SetQuantity reports false when the item is not in the user's cart.
func (r *repo) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (bool, error) {
	res, err := r.db.ExecContext(ctx, setQuantitySQL, userID, itemID, quantity)
	if err != nil {
		return false, fmt.Errorf("update cart_item: %w", err)
	}
	return affected(res)
}

func (r *repo) RemoveItem(ctx context.Context, userID, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, removeItemSQL, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("delete cart_item: %w", err)
	}
	return affected(res)
}

func (r *repo) SetCoupon(ctx context.Context, userID, code string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE carts SET coupon_code = NULLIF($2, ''), updated_at = NOW() WHERE user_id = $1`,
		userID, code)
	if err != nil {
		return fmt.Errorf("update cart coupon: %w", err)
	}
	return nil
}

// ClearCart drops the cart row; items go with it.
func (r *repo) ClearCart(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
