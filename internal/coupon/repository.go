package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	GetByCode(ctx context.Context, code string) (Coupon, error)
	Redeem(ctx context.Context, code string) error
	Upsert(ctx context.Context, c Coupon) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectCoupon = `
		SELECT code, discount_type, value, min_order_amount, max_discount,
		       valid_from, valid_until, usage_limit, used_count, active
		FROM coupons
		WHERE code = $1`

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, selectCoupon, NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Coupon{}, ErrNotFound
		}
		return Coupon{}, fmt.Errorf("select coupon: %w", err)
	}
	return c, nil
}

// Redeem counts one use of the coupon. The row is locked so concurrent
// redemptions cannot overshoot the usage limit.
func (r *PostgresRepository) Redeem(ctx context.Context, code string) error {
	code = NormalizeCode(code)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var limit, used int
	err = tx.QueryRow(ctx, `
		SELECT usage_limit, used_count
		FROM coupons
		WHERE code = $1
		FOR UPDATE
	`, code).Scan(&limit, &used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock coupon: %w", err)
	}
	if limit > 0 && used >= limit {
		return invalid(code, ReasonUsageExceeded, "Coupon usage limit reached")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = now()
		WHERE code = $1
	`, code); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c Coupon) error {
	var validUntil pgtype.Timestamptz
	if c.ValidUntil != nil {
		validUntil = pgtype.Timestamptz{Time: *c.ValidUntil, Valid: true}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (code, discount_type, value, min_order_amount, max_discount,
		                     valid_from, valid_until, usage_limit, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET
			discount_type = EXCLUDED.discount_type,
			value = EXCLUDED.value,
			min_order_amount = EXCLUDED.min_order_amount,
			max_discount = EXCLUDED.max_discount,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			usage_limit = EXCLUDED.usage_limit,
			active = EXCLUDED.active,
			updated_at = now()
	`, NormalizeCode(c.Code), string(c.DiscountType), c.Value, c.MinOrderAmount, c.MaxDiscount,
		c.ValidFrom, validUntil, c.UsageLimit, c.Active)
	if err != nil {
		return fmt.Errorf("upsert coupon: %w", err)
	}
	return nil
}

func scanCoupon(row pgx.Row) (Coupon, error) {
	var (
		c          Coupon
		kind       string
		validUntil pgtype.Timestamptz
	)
	err := row.Scan(&c.Code, &kind, &c.Value, &c.MinOrderAmount, &c.MaxDiscount,
		&c.ValidFrom, &validUntil, &c.UsageLimit, &c.UsedCount, &c.Active)
	if err != nil {
		return Coupon{}, err
	}
	c.DiscountType = DiscountType(kind)
	if validUntil.Valid {
		t := validUntil.Time
		c.ValidUntil = &t
	}
	return c, nil
}
