package cart

// HasCart is implemented by domain objects that can be put in a cart directly.
type HasCart interface {
	CartIdentifier() any
	CartDescription() string
	CartPrice() float64
}

// Options is caller metadata attached to a line. Only the "quantity" key is
// interpreted by the cart.
type Options map[string]any

// Variation is the attribute set (size, color, ...) that, together with the
// product id, identifies a line.
type Variation map[string]any

// Source is what an item is built from: either Attributes or Product(h).
type Source interface {
	fields() sourceFields
}

type sourceFields struct {
	id    any
	name  any
	price any
	model string
}

// Attributes is a plain attribute mapping with the keys "id", "name" and
// "price". On update the keys "qty"/"quantity", "options" and "variation" are
// honored as well.
type Attributes map[string]any

func (a Attributes) fields() sourceFields {
	return sourceFields{
		id:    a["id"],
		name:  a["name"],
		price: a["price"],
	}
}

// Product wraps a HasCart value as a Source. Items built from it are
// associated with the value's model.
func Product(h HasCart) Source {
	return hasCartSource{item: h}
}

type hasCartSource struct {
	item HasCart
}

func (s hasCartSource) fields() sourceFields {
	if s.item == nil {
		return sourceFields{}
	}
	return sourceFields{
		id:    s.item.CartIdentifier(),
		name:  s.item.CartDescription(),
		price: s.item.CartPrice(),
		model: ModelName(s.item),
	}
}

// Sellable is a ready-made HasCart for embedding in domain structs. The
// embedding struct's type becomes the associated model of lines built from it.
//
//	type Shirt struct {
//		cart.Sellable
//		Size string
//	}
type Sellable struct {
	ID    any
	Name  string
	Price float64
}

// CartIdentifier returns ID.
func (s Sellable) CartIdentifier() any { return s.ID }

// CartDescription returns Name.
func (s Sellable) CartDescription() string { return s.Name }

// CartPrice returns Price.
func (s Sellable) CartPrice() float64 { return s.Price }
