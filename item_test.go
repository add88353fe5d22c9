package cart

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/cart/numfmt"
)

func someItem(t *testing.T) *Item {
	t.Helper()
	item, err := NewItem(Attributes{"id": 1, "name": "Some item", "price": 10.00}, nil, Variation{"size": "XL", "color": "red"})
	require.NoError(t, err)
	return item
}

func TestItemToMap(t *testing.T) {
	item := someItem(t)
	require.NoError(t, item.SetQuantity(2))

	assert.Equal(t, map[string]any{
		"id":       int64(1),
		"name":     "Some item",
		"price":    10.0,
		"itemId":   item.ItemID(),
		"quantity": 2.0,
		"options":  Options{},
		"variation": Variation{
			"size":  "XL",
			"color": "red",
		},
		"tax":      0.0,
		"subtotal": 20.0,
	}, item.ToMap())
}

func TestItemToJSON(t *testing.T) {
	item := someItem(t)
	require.NoError(t, item.SetQuantity(2))

	got, err := item.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"itemId":"`+item.ItemID()+`","id":1,"name":"Some item","quantity":2,"price":10,"options":{},"variation":{"color":"red","size":"XL"},"tax":0,"subtotal":20}`, got)
}

func TestNewItemDefaults(t *testing.T) {
	item := someItem(t)

	assert.Equal(t, 1.0, item.Quantity())
	assert.Equal(t, 0.0, item.TaxRate())
	assert.Empty(t, item.AssociatedModel())
	assert.Equal(t, "10.00", item.FormatPrice())
}

func TestNewItemQuantityFromOptions(t *testing.T) {
	item, err := NewItem(Attributes{"id": "sku-1", "name": "Item", "price": "2.50"}, Options{"quantity": "3"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3.0, item.Quantity())
	assert.Equal(t, 2.5, item.Price())
	assert.Equal(t, "sku-1", item.ID())
}

func TestNewItemEmptyIdentifiers(t *testing.T) {
	for _, id := range []any{nil, "", "0", 0, false} {
		_, err := NewItem(Attributes{"id": id, "name": "Item", "price": 1}, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument, "id %#v", id)
	}
}

func TestItemIDsAreUniqueAndOrdered(t *testing.T) {
	first := someItem(t)
	second := someItem(t)

	assert.NotEqual(t, first.ItemID(), second.ItemID())
	assert.Less(t, first.ItemID(), second.ItemID())
}

func TestItemDerivedValues(t *testing.T) {
	item, err := NewItem(Attributes{"id": 1, "name": "Item", "price": 10.00}, Options{"quantity": 2}, nil)
	require.NoError(t, err)
	item.SetTaxRate(21)

	assert.Equal(t, 2.1, item.Tax())
	assert.Equal(t, 12.1, item.PriceTax())
	assert.Equal(t, 20.0, item.Subtotal())
	assert.Equal(t, 24.2, item.Total())
	assert.Equal(t, 4.2, item.TaxTotal())

	assert.Equal(t, "24.20", item.FormatTotal())
	assert.Equal(t, "24,2", item.FormatTotal(numfmt.Decimals(1), numfmt.DecimalPoint(",")))
}

func TestItemSetQuantity(t *testing.T) {
	item := someItem(t)

	for _, q := range []float64{0, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, item.SetQuantity(q), ErrInvalidArgument)
	}
	assert.Equal(t, 1.0, item.Quantity())

	require.NoError(t, item.SetQuantity(-1))
	assert.Equal(t, -1.0, item.Quantity())
}

func TestItemUpdateFromAttributesKeepsMissingKeys(t *testing.T) {
	item := someItem(t)

	_, err := item.UpdateFromAttributes(Attributes{"price": 12.5, "qty": 4}, Options{"gift": true}, Variation{"size": "S"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), item.ID())
	assert.Equal(t, "Some item", item.Name())
	assert.Equal(t, 12.5, item.Price())
	assert.Equal(t, 4.0, item.Quantity())
	assert.Equal(t, Options{"gift": true}, item.Options())
	assert.Equal(t, Variation{"size": "S"}, item.Variation())
}

func TestItemUpdateFromAttributesKeysWin(t *testing.T) {
	item := someItem(t)

	_, err := item.UpdateFromAttributes(Attributes{
		"options":   map[string]any{"note": "x"},
		"variation": Variation{"size": "M"},
	}, Options{"note": "ignored"}, Variation{"size": "ignored"})
	require.NoError(t, err)

	assert.Equal(t, Options{"note": "x"}, item.Options())
	assert.Equal(t, Variation{"size": "M"}, item.Variation())
}

func TestItemUpdateFromAttributesIsAtomic(t *testing.T) {
	item := someItem(t)

	_, err := item.UpdateFromAttributes(Attributes{"name": "Other", "quantity": "many"}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, "Some item", item.Name())
	assert.Equal(t, 1.0, item.Quantity())
}

type book struct{}

func (book) CartIdentifier() any     { return "isbn-1" }
func (book) CartDescription() string { return "A book" }
func (book) CartPrice() float64      { return 15 }

func TestItemFromHasCart(t *testing.T) {
	item, err := NewItem(Product(book{}), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "isbn-1", item.ID())
	assert.Equal(t, "A book", item.Name())
	assert.Equal(t, 15.0, item.Price())
	assert.Equal(t, "cart.book", item.AssociatedModel())

	_, err = item.UpdateFromHasCart(book{}, Options{"a": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, Options{"a": int64(1)}, item.Options())

	_, err = NewItem(Product(nil), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

type draft struct{}

func (draft) CartIdentifier() any     { return "isbn-2" }
func (draft) CartDescription() string { return "" }
func (draft) CartPrice() float64      { return -5 }

func TestItemUpdateFromHasCartIsAtomic(t *testing.T) {
	item := someItem(t)

	_, err := item.UpdateFromHasCart(draft{}, Options{"a": 1}, Variation{"size": "S"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, int64(1), item.ID())
	assert.Equal(t, "Some item", item.Name())
	assert.Equal(t, 10.0, item.Price())
	assert.Equal(t, Variation{"size": "XL", "color": "red"}, item.Variation())

	_, err = item.UpdateFromHasCart(nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewItemEmptyNames(t *testing.T) {
	for _, name := range []any{nil, "", "0", 0, false} {
		_, err := NewItem(Attributes{"id": 1, "name": name, "price": 1}, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%#v", name)
	}

	item := someItem(t)
	_, err := item.UpdateFromAttributes(Attributes{"name": "0"}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "Some item", item.Name())
}

func TestItemModelWithoutResolver(t *testing.T) {
	item := someItem(t)
	item.Associate("Product")

	_, err := item.Model(context.Background())
	assert.ErrorIs(t, err, ErrUnknownModel)
}
