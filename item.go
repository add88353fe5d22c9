package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creastat/cart/numfmt"
)

var hundred = decimal.NewFromInt(100)

// Item is one line of a cart. The item id is fixed at construction; every
// derived amount is computed on read from price, quantity and tax rate.
type Item struct {
	itemID          string
	id              any
	name            string
	price           float64
	quantity        float64
	options         Options
	variation       Variation
	taxRate         float64
	associatedModel string

	format numfmt.Format
	models ModelResolver
}

// NewItem validates src and builds a new line with a fresh time-ordered item id.
// The quantity comes from options["quantity"] and defaults to 1.
func NewItem(src Source, options Options, variation Variation) (*Item, error) {
	if src == nil {
		return nil, invalidArgument("identifier")
	}
	f := src.fields()

	if isEmpty(f.id) {
		return nil, invalidArgument("identifier")
	}
	name, ok := nameOf(f.name)
	if !ok {
		return nil, invalidArgument("name")
	}
	price, ok := priceOf(f.price)
	if !ok {
		return nil, invalidArgument("price")
	}
	quantity := 1.0
	if q, present := options["quantity"]; present && q != nil {
		if quantity, ok = toFloat(q); !ok {
			return nil, invalidArgument("quantity")
		}
	}

	itemID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating item id: %w", err)
	}

	return &Item{
		itemID:          itemID.String(),
		id:              normalize(f.id),
		name:            name,
		price:           price,
		quantity:        quantity,
		options:         normalizeMap(options),
		variation:       normalizeMap(variation),
		associatedModel: f.model,
		format:          numfmt.Default(),
	}, nil
}

// nameOf applies the identifier emptiness rule to names as well.
func nameOf(v any) (string, bool) {
	if isEmpty(v) {
		return "", false
	}
	name := stringOf(v)
	return name, name != ""
}

func priceOf(v any) (float64, bool) {
	price, ok := toFloat(v)
	return price, ok && price >= 0
}

// ItemID returns the line id, unique within the process and ordered by creation.
func (i *Item) ItemID() string { return i.itemID }

// ID returns the external product id.
func (i *Item) ID() any { return i.id }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// Quantity returns the line quantity.
func (i *Item) Quantity() float64 { return i.quantity }

// Options returns the caller metadata of the line.
func (i *Item) Options() Options { return i.options }

// Variation returns the attributes that identify the line together with ID.
func (i *Item) Variation() Variation { return i.variation }

// TaxRate returns the tax rate in percent.
func (i *Item) TaxRate() float64 { return i.taxRate }

// AssociatedModel returns the name of the associated model, or "".
func (i *Item) AssociatedModel() string { return i.associatedModel }

func (i *Item) priceDec() decimal.Decimal {
	return decimal.NewFromFloat(i.price)
}

func (i *Item) quantityDec() decimal.Decimal {
	return decimal.NewFromFloat(i.quantity)
}

func (i *Item) taxDec() decimal.Decimal {
	return i.priceDec().Mul(decimal.NewFromFloat(i.taxRate)).Div(hundred)
}

func (i *Item) priceTaxDec() decimal.Decimal {
	return i.priceDec().Add(i.taxDec())
}

func (i *Item) subtotalDec() decimal.Decimal {
	return i.quantityDec().Mul(i.priceDec())
}

func (i *Item) totalDec() decimal.Decimal {
	return i.quantityDec().Mul(i.priceTaxDec())
}

func (i *Item) taxTotalDec() decimal.Decimal {
	return i.taxDec().Mul(i.quantityDec())
}

// Price is the unit price without tax.
func (i *Item) Price() float64 { return i.price }

// PriceTax is the unit price including tax.
func (i *Item) PriceTax() float64 { return i.priceTaxDec().InexactFloat64() }

// Subtotal is quantity × price.
func (i *Item) Subtotal() float64 { return i.subtotalDec().InexactFloat64() }

// Total is quantity × price including tax.
func (i *Item) Total() float64 { return i.totalDec().InexactFloat64() }

// Tax is the tax on one unit.
func (i *Item) Tax() float64 { return i.taxDec().InexactFloat64() }

// TaxTotal is the tax on the whole line.
func (i *Item) TaxTotal() float64 { return i.taxTotalDec().InexactFloat64() }

// FormatPrice formats Price. Explicit options override the cart format.
func (i *Item) FormatPrice(opts ...numfmt.Option) string {
	return i.format.With(opts...).Decimal(i.priceDec())
}

// FormatPriceTax formats PriceTax.
func (i *Item) FormatPriceTax(opts ...numfmt.Option) string {
	return i.format.With(opts...).Decimal(i.priceTaxDec())
}

// FormatSubtotal formats Subtotal.
func (i *Item) FormatSubtotal(opts ...numfmt.Option) string {
	return i.format.With(opts...).Decimal(i.subtotalDec())
}

// FormatTotal formats Total.
func (i *Item) FormatTotal(opts ...numfmt.Option) string {
	return i.format.With(opts...).Decimal(i.totalDec())
}

// FormatTax formats Tax.
func (i *Item) FormatTax(opts ...numfmt.Option) string {
	return i.format.With(opts...).Decimal(i.taxDec())
}

// FormatTaxTotal formats TaxTotal.
func (i *Item) FormatTaxTotal(opts ...numfmt.Option) string {
	return i.format.With(opts...).Decimal(i.taxTotalDec())
}

// SetQuantity rejects zero and non-finite quantities. Removing a line whose
// quantity drops to zero is the cart's job, see Cart.UpdateQuantity.
func (i *Item) SetQuantity(quantity float64) error {
	if quantity == 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return invalidArgument("quantity")
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setQuantity(quantity float64) {
	i.quantity = quantity
}

// SetTaxRate replaces the tax rate and returns the item for chaining.
func (i *Item) SetTaxRate(rate float64) *Item {
	i.taxRate = rate
	return i
}

// Associate links the item to a model. A string is taken as the model name,
// anything else contributes its ModelName.
func (i *Item) Associate(model any) *Item {
	if name, ok := model.(string); ok {
		i.associatedModel = name
	} else {
		i.associatedModel = ModelName(model)
	}
	return i
}

// Model fetches the associated model by the item's product id. It returns nil
// when the item has no association.
func (i *Item) Model(ctx context.Context) (any, error) {
	if i.associatedModel == "" {
		return nil, nil
	}
	if i.models == nil || !i.models.Exists(i.associatedModel) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, i.associatedModel)
	}
	return i.models.Find(ctx, i.associatedModel, i.id)
}

// UpdateFromHasCart takes id, name and price from h and replaces options and
// variation. Nothing is changed when one of the values is invalid.
func (i *Item) UpdateFromHasCart(h HasCart, options Options, variation Variation) (*Item, error) {
	if h == nil {
		return nil, invalidArgument("identifier")
	}
	id := h.CartIdentifier()
	if isEmpty(id) {
		return nil, invalidArgument("identifier")
	}
	name, ok := nameOf(h.CartDescription())
	if !ok {
		return nil, invalidArgument("name")
	}
	price, ok := priceOf(h.CartPrice())
	if !ok {
		return nil, invalidArgument("price")
	}

	i.id = normalize(id)
	i.name = name
	i.price = price
	i.options = normalizeMap(options)
	i.variation = normalizeMap(variation)
	return i, nil
}

// UpdateFromAttributes applies the keys present in attrs and keeps the current
// value for missing ones. "options" and "variation" keys win over the
// arguments. Nothing is changed when a present value is invalid.
func (i *Item) UpdateFromAttributes(attrs Attributes, options Options, variation Variation) (*Item, error) {
	id := i.id
	if v, ok := attrs["id"]; ok {
		if isEmpty(v) {
			return nil, invalidArgument("identifier")
		}
		id = normalize(v)
	}

	name := i.name
	if v, ok := attrs["name"]; ok {
		var ok bool
		if name, ok = nameOf(v); !ok {
			return nil, invalidArgument("name")
		}
	}

	price := i.price
	if v, ok := attrs["price"]; ok {
		p, valid := priceOf(v)
		if !valid {
			return nil, invalidArgument("price")
		}
		price = p
	}

	quantity := i.quantity
	for _, key := range []string{"qty", "quantity"} {
		if v, ok := attrs[key]; ok {
			q, valid := toFloat(v)
			if !valid {
				return nil, invalidArgument("quantity")
			}
			quantity = q
			break
		}
	}

	if v, ok := attrs["options"]; ok {
		options = asMap(v, options)
	}
	if v, ok := attrs["variation"]; ok {
		variation = asMap(v, variation)
	}

	i.id = id
	i.name = name
	i.price = price
	i.quantity = quantity
	i.options = normalizeMap(options)
	i.variation = normalizeMap(variation)
	return i, nil
}

func asMap(v any, fallback map[string]any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Options:
		return m
	case Variation:
		return m
	}
	return fallback
}

type itemJSON struct {
	ItemID    string    `json:"itemId"`
	ID        any       `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Options   Options   `json:"options"`
	Variation Variation `json:"variation"`
	Tax       float64   `json:"tax"`
	Subtotal  float64   `json:"subtotal"`
}

func (i *Item) projection() itemJSON {
	return itemJSON{
		ItemID:    i.itemID,
		ID:        i.id,
		Name:      i.name,
		Quantity:  i.quantity,
		Price:     i.price,
		Options:   i.options,
		Variation: i.variation,
		Tax:       i.Tax(),
		Subtotal:  i.Subtotal(),
	}
}

// ToMap projects the public fields of the line: itemId, id, name, quantity,
// price, options, variation, tax and subtotal.
func (i *Item) ToMap() map[string]any {
	p := i.projection()
	return map[string]any{
		"itemId":    p.ItemID,
		"id":        p.ID,
		"name":      p.Name,
		"quantity":  p.Quantity,
		"price":     p.Price,
		"options":   p.Options,
		"variation": p.Variation,
		"tax":       p.Tax,
		"subtotal":  p.Subtotal,
	}
}

// MarshalJSON encodes the same fields as ToMap, in that order.
func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.projection())
}

// ToJSON returns the MarshalJSON encoding as a string.
func (i *Item) ToJSON() (string, error) {
	b, err := i.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
