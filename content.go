package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Content is the ordered collection of lines in one cart, keyed by item id.
// Iteration follows insertion order.
type Content struct {
	keys  []string
	items map[string]*Item
}

// NewContent returns an empty collection.
func NewContent() *Content {
	return &Content{items: make(map[string]*Item)}
}

// Len reports the number of lines.
func (c *Content) Len() int {
	return len(c.keys)
}

// Has reports whether a line with itemID exists.
func (c *Content) Has(itemID string) bool {
	_, ok := c.items[itemID]
	return ok
}

// Get returns the line with itemID.
func (c *Content) Get(itemID string) (*Item, bool) {
	item, ok := c.items[itemID]
	return item, ok
}

// Put inserts item at the end, or replaces it in place when its item id is
// already present.
func (c *Content) Put(item *Item) {
	if _, ok := c.items[item.itemID]; !ok {
		c.keys = append(c.keys, item.itemID)
	}
	c.items[item.itemID] = item
}

// Pull removes and returns the line with the given item id.
func (c *Content) Pull(itemID string) (*Item, bool) {
	item, ok := c.items[itemID]
	if !ok {
		return nil, false
	}
	delete(c.items, itemID)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == itemID })
	return item, true
}

// Keys returns a copy of the item ids in insertion order.
func (c *Content) Keys() []string {
	return slices.Clone(c.keys)
}

// Items returns the lines in insertion order.
func (c *Content) Items() []*Item {
	out := make([]*Item, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}

// First returns the first line in insertion order.
func (c *Content) First() (*Item, bool) {
	if len(c.keys) == 0 {
		return nil, false
	}
	return c.items[c.keys[0]], true
}

// Filter returns a new Content with the lines for which keep returns true.
func (c *Content) Filter(keep func(item *Item, itemID string) bool) *Content {
	out := NewContent()
	for id, item := range c.All() {
		if keep(item, id) {
			out.Put(item)
		}
	}
	return out
}

// All iterates item id and line pairs in insertion order.
func (c *Content) All() iter.Seq2[string, *Item] {
	return func(yield func(string, *Item) bool) {
		for _, k := range c.keys {
			if !yield(k, c.items[k]) {
				return
			}
		}
	}
}

// storedItem is the persisted form of a line. Unlike the public projection it
// carries the tax rate and the model association.
type storedItem struct {
	ItemID          string    `json:"itemId"`
	ID              any       `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Quantity        float64   `json:"quantity"`
	Options         Options   `json:"options"`
	Variation       Variation `json:"variation"`
	TaxRate         float64   `json:"taxRate"`
	AssociatedModel string    `json:"associatedModel,omitempty"`
}

// MarshalJSON encodes the lines as an array of stored rows.
func (c *Content) MarshalJSON() ([]byte, error) {
	rows := make([]storedItem, 0, len(c.keys))
	for _, item := range c.Items() {
		rows = append(rows, storedItem{
			ItemID:          item.itemID,
			ID:              item.id,
			Name:            item.name,
			Price:           item.price,
			Quantity:        item.quantity,
			Options:         item.options,
			Variation:       item.variation,
			TaxRate:         item.taxRate,
			AssociatedModel: item.associatedModel,
		})
	}
	return json.Marshal(rows)
}

// UnmarshalJSON replaces the lines with the decoded rows. Numbers inside ids,
// options and variations keep their integer form.
func (c *Content) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []storedItem
	if err := dec.Decode(&rows); err != nil {
		return fmt.Errorf("decoding cart content: %w", err)
	}

	c.keys = make([]string, 0, len(rows))
	c.items = make(map[string]*Item, len(rows))
	for _, row := range rows {
		c.Put(&Item{
			itemID:          row.ItemID,
			id:              normalize(row.ID),
			name:            row.Name,
			price:           row.Price,
			quantity:        row.Quantity,
			options:         normalizeMap(row.Options),
			variation:       normalizeMap(row.Variation),
			taxRate:         row.TaxRate,
			associatedModel: row.AssociatedModel,
		})
	}
	return nil
}
