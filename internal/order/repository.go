package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	MarkProcessed(ctx context.Context, orderID string, enrollments []Enrollment, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, orderID, reason string) error
	MarkConfirmed(ctx context.Context, orderID string, at time.Time) (bool, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const (
	insertOrderSQL = `INSERT INTO orders (id, order_number, cart_id, user_id, status, billing_name, billing_email,
         billing_address, customer_notes, payment_method, coupon_code, subtotal, discount_amount, tax_amount,
         total, currency, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15, $16, $17)`
	insertOrderItemSQL = `INSERT INTO order_items (id, order_id, course_id, bundle_id, title, quantity, unit_price,
             discount_amount, subtotal, total)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
)

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.CartID, o.UserID, string(o.Status), o.BillingName, o.BillingEmail,
		o.BillingAddress, o.CustomerNotes, o.PaymentMethod, o.CouponCode, o.Subtotal, o.DiscountAmount,
		o.TaxAmount, o.Total, o.Currency, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, insertOrderItemSQL,
			uuid.NewString(), o.ID, it.CourseID, it.BundleID, it.Title, it.Quantity, it.UnitPrice,
			it.DiscountAmount, it.Subtotal, it.Total,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const orderColumns = `o.id, o.order_number, o.cart_id, o.user_id, o.status, o.billing_name, o.billing_email,
       o.billing_address, o.customer_notes, o.payment_method, o.coupon_code, o.subtotal, o.discount_amount,
       o.tax_amount, o.total, o.currency, o.failure_reason, o.created_at, o.processed_at, o.confirmed_at`

const itemColumns = `oi.course_id, oi.bundle_id, oi.title, oi.quantity, oi.unit_price, oi.discount_amount,
       oi.subtotal, oi.total`

var (
	selectOrderSQL = `SELECT ` + orderColumns + `
FROM orders o WHERE o.id = $1`
	selectOrderItemsSQL = `SELECT ` + itemColumns + `
FROM order_items oi WHERE oi.order_id = $1 ORDER BY oi.title, oi.id`
	listOrdersSQL = `SELECT ` + orderColumns + `, ` + itemColumns + `
FROM orders o
LEFT JOIN order_items oi ON oi.order_id = o.id
WHERE o.user_id = $1
ORDER BY o.created_at DESC, o.id, oi.title, oi.id`
)

type orderRow struct {
	o                        Order
	status                   string
	coupon, failure          sql.NullString
	processedAt, confirmedAt sql.NullTime
}

func (or *orderRow) dest() []any {
	return []any{&or.o.ID, &or.o.OrderNumber, &or.o.CartID, &or.o.UserID, &or.status, &or.o.BillingName,
		&or.o.BillingEmail, &or.o.BillingAddress, &or.o.CustomerNotes, &or.o.PaymentMethod, &or.coupon,
		&or.o.Subtotal, &or.o.DiscountAmount, &or.o.TaxAmount, &or.o.Total, &or.o.Currency, &or.failure,
		&or.o.CreatedAt, &or.processedAt, &or.confirmedAt}
}

func (or *orderRow) order() Order {
	o := or.o
	o.Status = Status(or.status)
	o.CouponCode = or.coupon.String
	o.FailureReason = or.failure.String
	if or.processedAt.Valid {
		t := or.processedAt.Time
		o.ProcessedAt = &t
	}
	if or.confirmedAt.Valid {
		t := or.confirmedAt.Time
		o.ConfirmedAt = &t
	}
	return o
}

type itemRow struct {
	course, bundle, title sql.NullString
	quantity              sql.NullInt64
	unitPrice, discount   decimal.NullDecimal
	subtotal, total       decimal.NullDecimal
}

func (ir *itemRow) dest() []any {
	return []any{&ir.course, &ir.bundle, &ir.title, &ir.quantity, &ir.unitPrice, &ir.discount, &ir.subtotal, &ir.total}
}

// item reports false for the all-NULL row of an order without items.
func (ir *itemRow) item() (Item, bool) {
	if !ir.quantity.Valid {
		return Item{}, false
	}
	return Item{
		CourseID:       nullableString(ir.course),
		BundleID:       nullableString(ir.bundle),
		Title:          ir.title.String,
		Quantity:       int(ir.quantity.Int64),
		UnitPrice:      ir.unitPrice.Decimal,
		DiscountAmount: ir.discount.Decimal,
		Subtotal:       ir.subtotal.Decimal,
		Total:          ir.total.Decimal,
	}, true
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var or orderRow
	err := r.db.QueryRowContext(ctx, selectOrderSQL, orderID).Scan(or.dest()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	o := or.order()

	rows, err := r.db.QueryContext(ctx, selectOrderItemsSQL, o.ID)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ir itemRow
		if err := rows.Scan(ir.dest()...); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		if it, ok := ir.item(); ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &o, nil
}

// ListByUser loads orders and their items in one query, newest first.
func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	index := map[string]int{}
	for rows.Next() {
		var (
			or orderRow
			ir itemRow
		)
		if err := rows.Scan(append(or.dest(), ir.dest()...)...); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		i, seen := index[or.o.ID]
		if !seen {
			orders = append(orders, or.order())
			i = len(orders) - 1
			index[or.o.ID] = i
		}
		if it, ok := ir.item(); ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return orders, nil
}

const (
	markProcessedSQL = `UPDATE orders SET status = 'processed', processed_at = $2, failure_reason = NULL
WHERE id = $1 AND status IN ('created', 'failed')`
	insertEnrollmentSQL = `INSERT INTO enrollments (id, order_id, user_id, course_id, bundle_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT DO NOTHING`
	markFailedSQL = `UPDATE orders SET status = 'failed', failure_reason = $2
WHERE id = $1 AND status IN ('created', 'failed')`
	markConfirmedSQL = `UPDATE orders SET status = 'confirmed', confirmed_at = $2
WHERE id = $1 AND status = 'processed'`
)

// MarkProcessed grants enrollments and moves the order to processed in
// one transaction. It reports false when the order was not processable,
// for example because a concurrent call got there first.
func (r *repo) MarkProcessed(ctx context.Context, orderID string, enrollments []Enrollment, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, markProcessedSQL, orderID, at)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for _, e := range enrollments {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insertEnrollmentSQL,
			e.ID, orderID, e.UserID, e.CourseID, e.BundleID, at); err != nil {
			return false, fmt.Errorf("insert enrollment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (r *repo) MarkFailed(ctx context.Context, orderID, reason string) error {
	if _, err := r.db.ExecContext(ctx, markFailedSQL, orderID, reason); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (r *repo) MarkConfirmed(ctx context.Context, orderID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, markConfirmedSQL, orderID, at)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
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
