package supabase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/cart/models"
)

type fetchCall struct {
	table, column, value string
}

func fakeFetch(rows map[string]Row, calls *[]fetchCall) fetchFunc {
	return func(_ context.Context, table, column, value string, dest *Row) error {
		*calls = append(*calls, fetchCall{table, column, value})
		if row, ok := rows[table+"/"+value]; ok {
			*dest = row
			return nil
		}
		return errors.New("(PGRST116) JSON object requested, multiple (or no) rows returned")
	}
}

func TestNewRequiresURLAndKey(t *testing.T) {
	_, err := New(Config{APIKey: "key"})
	assert.Error(t, err)

	_, err = New(Config{URL: "https://example.supabase.co"})
	assert.Error(t, err)
}

func TestGetCachesRows(t *testing.T) {
	var calls []fetchCall
	c := newClient(fakeFetch(map[string]Row{
		"products/1": {"id": float64(1), "name": "Some value"},
	}, &calls), Config{})

	ctx := context.Background()
	row, err := c.Get(ctx, "products", 1)
	require.NoError(t, err)
	assert.Equal(t, "Some value", row["name"])

	_, err = c.Get(ctx, "products", 1)
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, fetchCall{"products", "id", "1"}, calls[0])
}

func TestGetRefetchesExpiredRows(t *testing.T) {
	var calls []fetchCall
	c := newClient(fakeFetch(map[string]Row{
		"products/1": {"id": float64(1)},
	}, &calls), Config{CacheTTL: time.Nanosecond})

	ctx := context.Background()
	_, err := c.Get(ctx, "products", 1)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = c.Get(ctx, "products", 1)
	require.NoError(t, err)

	assert.Len(t, calls, 2)
}

func TestGetMissingRow(t *testing.T) {
	var calls []fetchCall
	c := newClient(fakeFetch(nil, &calls), Config{IDColumn: "sku"})

	_, err := c.Get(context.Background(), "products", "abc")
	require.Error(t, err)
	assert.Equal(t, "sku", calls[0].column)
}

func TestTableFinder(t *testing.T) {
	var calls []fetchCall
	c := newClient(fakeFetch(map[string]Row{
		"products/2": {"id": float64(2)},
	}, &calls), Config{})

	r := models.NewRegistry()
	r.Register("Product", c.Table("products"))

	got, err := r.Find(context.Background(), "Product", int64(2))
	require.NoError(t, err)
	assert.Equal(t, Row{"id": float64(2)}, got)
}
