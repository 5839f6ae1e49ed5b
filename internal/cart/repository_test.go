package cart

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryGetCart_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectCartSQL)).
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)

	c, err := NewRepository(db).GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	require.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetCart_WithItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(selectCartSQL)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "coupon_code", "updated_at"}).
			AddRow("cart-1", "user-1", "SAVE10", now))
	mock.ExpectQuery(regexp.QuoteMeta(selectItemsSQL)).
		WithArgs("cart-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "bundle_id", "title", "quantity", "unit_price", "created_at"}).
			AddRow("i1", "go-101", nil, "Go 101", 2, "49.99", now).
			AddRow("i2", nil, "backend", "Backend bundle", 1, "100.00", now))

	c, err := NewRepository(db).GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "cart-1", c.ID)
	assert.Equal(t, "SAVE10", c.CouponCode)
	require.Len(t, c.Items, 2)
	require.NotNil(t, c.Items[0].CourseID)
	assert.Equal(t, "go-101", *c.Items[0].CourseID)
	assert.Nil(t, c.Items[0].BundleID)
	assert.True(t, c.Items[0].UnitPrice.Equal(d("49.99")))
	require.NotNil(t, c.Items[1].BundleID)
	assert.Nil(t, c.Items[1].CourseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAddItem_NewLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	course := "go-101"
	it := Item{CourseID: &course, Title: "Go 101", Quantity: 1, UnitPrice: d("49.99")}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(upsertCartSQL)).
		WithArgs(sqlmock.AnyArg(), "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cart-1"))
	mock.ExpectExec(regexp.QuoteMeta(bumpItemSQL)).
		WithArgs("cart-1", "go-101", nil, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertItemSQL)).
		WithArgs(sqlmock.AnyArg(), "cart-1", "go-101", nil, "Go 101", 1, "49.99").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewRepository(db).AddItem(context.Background(), "user-1", it))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAddItem_ExistingLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	bundle := "backend"
	it := Item{BundleID: &bundle, Title: "Backend", Quantity: 2, UnitPrice: d("100")}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(upsertCartSQL)).
		WithArgs(sqlmock.AnyArg(), "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cart-1"))
	mock.ExpectExec(regexp.QuoteMeta(bumpItemSQL)).
		WithArgs("cart-1", nil, "backend", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewRepository(db).AddItem(context.Background(), "user-1", it))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAddItem_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	course := "go-101"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(upsertCartSQL)).
		WithArgs(sqlmock.AnyArg(), "user-1").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err = NewRepository(db).AddItem(context.Background(), "user-1", Item{CourseID: &course, Quantity: 1, UnitPrice: d("1")})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(setQuantitySQL)).
		WithArgs("user-1", "i1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.SetQuantity(context.Background(), "user-1", "i1", 3)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta(setQuantitySQL)).
		WithArgs("user-1", "missing", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.SetQuantity(context.Background(), "user-1", "missing", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRemoveItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(removeItemSQL)).
		WithArgs("user-1", "i1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := NewRepository(db).RemoveItem(context.Background(), "user-1", "i1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetCouponAndClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE carts SET coupon_code = NULLIF($2, '')`)).
		WithArgs("user-1", "SAVE10").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM carts WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetCoupon(context.Background(), "user-1", "SAVE10"))
	require.NoError(t, repo.ClearCart(context.Background(), "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
