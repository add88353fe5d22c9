package drivers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/cart/session"
)

// exerciseStore runs the behaviour every session.Store must share.
func exerciseStore(t *testing.T, s session.Store) {
	t.Helper()
	ctx := context.Background()

	val, err := s.Get(ctx, "cart-tefo")
	require.NoError(t, err)
	assert.Nil(t, val, "missing key should read as nil")

	has, err := s.Has(ctx, "cart-tefo")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.Put(ctx, "cart-tefo", []byte(`[{"itemId":"a"}]`)))
	require.NoError(t, s.Put(ctx, "cart-wishlist", []byte(`[]`)))

	val, err = s.Get(ctx, "cart-tefo")
	require.NoError(t, err)
	assert.Equal(t, `[{"itemId":"a"}]`, string(val))

	require.NoError(t, s.Put(ctx, "cart-tefo", []byte(`[{"itemId":"b"}]`)))
	val, err = s.Get(ctx, "cart-tefo")
	require.NoError(t, err)
	assert.Equal(t, `[{"itemId":"b"}]`, string(val), "put should overwrite")

	has, err = s.Has(ctx, "cart-tefo")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.Remove(ctx, "cart-tefo"))
	require.NoError(t, s.Remove(ctx, "cart-tefo"), "removing twice is not an error")

	has, err = s.Has(ctx, "cart-tefo")
	require.NoError(t, err)
	assert.False(t, has)

	val, err = s.Get(ctx, "cart-wishlist")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(val), "other keys are untouched")
}
