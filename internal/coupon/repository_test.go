package coupon

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponColumns = []string{
	"code", "discount_type", "value", "min_order_amount", "max_discount",
	"valid_from", "valid_until", "usage_limit", "used_count", "active",
}

func TestPostgresRepository_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectCoupon)).
		WithArgs("SAVE10").
		WillReturnRows(pgxmock.NewRows(couponColumns).AddRow(
			"SAVE10", "percentage", d("10"), d("50"), decimal.NewNullDecimal(d("25")),
			from, pgtype.Timestamptz{Time: until, Valid: true}, 100, 3, true,
		))

	repo := NewPostgresRepository(mock)
	c, err := repo.GetByCode(context.Background(), " save10 ")
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, Percentage, c.DiscountType)
	assert.True(t, c.Value.Equal(d("10")))
	assert.True(t, c.MaxDiscount.Valid)
	require.NotNil(t, c.ValidUntil)
	assert.Equal(t, until, *c.ValidUntil)
	assert.Equal(t, 100, c.UsageLimit)
	assert.Equal(t, 3, c.UsedCount)
	assert.True(t, c.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByCodeOpenEnded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectCoupon)).
		WithArgs("FLAT5").
		WillReturnRows(pgxmock.NewRows(couponColumns).AddRow(
			"FLAT5", "fixed", d("5"), d("0"), decimal.NullDecimal{},
			time.Now(), pgtype.Timestamptz{}, 0, 0, true,
		))

	c, err := NewPostgresRepository(mock).GetByCode(context.Background(), "flat5")
	require.NoError(t, err)
	assert.Nil(t, c.ValidUntil)
	assert.False(t, c.MaxDiscount.Valid)
}

func TestPostgresRepository_GetByCodeMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectCoupon)).
		WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresRepository(mock).GetByCode(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_Redeem(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT usage_limit, used_count`)).
		WithArgs("SAVE10").
		WillReturnRows(pgxmock.NewRows([]string{"usage_limit", "used_count"}).AddRow(5, 4))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE coupons`)).
		WithArgs("SAVE10").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, NewPostgresRepository(mock).Redeem(context.Background(), "save10"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_RedeemExhausted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT usage_limit, used_count`)).
		WithArgs("SAVE10").
		WillReturnRows(pgxmock.NewRows([]string{"usage_limit", "used_count"}).AddRow(5, 5))
	mock.ExpectRollback()

	err = NewPostgresRepository(mock).Redeem(context.Background(), "SAVE10")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonUsageExceeded, verr.Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_RedeemUpdateFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT usage_limit, used_count`)).
		WithArgs("SAVE10").
		WillReturnRows(pgxmock.NewRows([]string{"usage_limit", "used_count"}).AddRow(0, 12))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE coupons`)).
		WithArgs("SAVE10").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err = NewPostgresRepository(mock).Redeem(context.Background(), "SAVE10")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO coupons`)).
		WithArgs("WELCOME", "fixed", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			from, pgtype.Timestamptz{}, 0, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewPostgresRepository(mock).Upsert(context.Background(), Coupon{
		Code: "welcome", DiscountType: Fixed, Value: d("100"), ValidFrom: from, Active: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
