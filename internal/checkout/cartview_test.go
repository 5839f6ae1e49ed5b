package checkout

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartView_LoadKeepsLastGoodSummary(t *testing.T) {
	api := &fakeCartAPI{summary: summaryWith("100.00")}
	v := NewCartView(api)

	require.NoError(t, v.Load(context.Background()))
	assert.False(t, v.IsEmpty())
	assert.True(t, v.CanCheckout())

	api.getErr = errBoom
	err := v.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, MsgLoadFailed, v.Error())
	assert.False(t, v.RedirectToCatalog())
	sum, ok := v.Summary()
	require.True(t, ok)
	assert.Equal(t, "cart-1", sum.CartID)
}

func TestCartView_FirstLoadFailureRedirects(t *testing.T) {
	api := &fakeCartAPI{getErr: apiErr(http.StatusServiceUnavailable, "Cart unavailable")}
	v := NewCartView(api)

	require.Error(t, v.Load(context.Background()))
	assert.True(t, v.RedirectToCatalog())
	assert.Equal(t, "Cart unavailable", v.Error())
	assert.True(t, v.IsEmpty())
	assert.False(t, v.CanCheckout())
}

func TestCartView_QuantityBelowOneRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		api := &fakeCartAPI{summary: summaryWith("10.00")}
		v := NewCartView(api)

		require.NoError(t, v.UpdateQuantity(context.Background(), "item-1", q))
		assert.Equal(t, 1, api.removes)
		assert.Zero(t, api.updates)
		assert.Equal(t, 1, api.gets)
	}
}

func TestCartView_UpdateQuantity(t *testing.T) {
	api := &fakeCartAPI{summary: summaryWith("10.00")}
	v := NewCartView(api)

	require.NoError(t, v.UpdateQuantity(context.Background(), "item-1", 3))
	assert.Equal(t, 3, api.lastQuantity)
	assert.Equal(t, 1, api.gets)
}

func TestCartView_FailedMutationStillRefetches(t *testing.T) {
	api := &fakeCartAPI{summary: summaryWith("10.00"), updateErr: apiErr(http.StatusNotFound, "Cart item not found")}
	v := NewCartView(api)

	err := v.UpdateQuantity(context.Background(), "missing", 2)
	require.Error(t, err)
	assert.Equal(t, "Cart item not found", Message(err, MsgUpdateFailed))

	assert.Equal(t, 1, api.gets, "refetch after failure")
	assert.Equal(t, "Cart item not found", v.Error(), "error survives the refetch")
	_, ok := v.Summary()
	assert.True(t, ok)
}

func TestCartView_RemoveFallbackMessage(t *testing.T) {
	api := &fakeCartAPI{summary: summaryWith("10.00"), removeErr: errBoom}
	v := NewCartView(api)

	require.Error(t, v.Remove(context.Background(), "item-1"))
	assert.Equal(t, MsgRemoveFailed, v.Error())
}

func TestCartView_ClearNeedsConfirmation(t *testing.T) {
	api := &fakeCartAPI{summary: summaryWith("10.00")}
	v := NewCartView(api)
	require.NoError(t, v.Load(context.Background()))

	var prompt string
	cleared, err := v.Clear(context.Background(), ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, ClearPrompt, prompt)
	assert.Zero(t, api.clears)

	cleared, err = v.Clear(context.Background(), ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, 1, api.clears)
	assert.True(t, v.IsEmpty())
}

func TestCartView_TotalsHiddenWhenEmpty(t *testing.T) {
	api := &fakeCartAPI{}
	v := NewCartView(api)
	require.NoError(t, v.Load(context.Background()))

	_, ok := v.Totals()
	assert.False(t, ok)

	api.summary = summaryWith("100.00")
	require.NoError(t, v.Load(context.Background()))
	totals, ok := v.Totals()
	require.True(t, ok)
	assert.True(t, totals.Total.Equal(d("100.00")))
	assert.Equal(t, "INR", totals.Currency)
}
