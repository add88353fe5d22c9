// Package cart keeps shopping-cart lines in a session store. Every operation
// loads the cart from the store, applies its change and writes the whole cart
// back; nothing is cached between calls.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/creastat/cart/config"
	"github.com/creastat/cart/numfmt"
	"github.com/creastat/cart/session"
)

const (
	// DefaultInstance is the cart name used when none is given.
	DefaultInstance = "tefo"

	sessionPrefix = "cart-"
)

// Lifecycle events. The payload is the affected *Item.
const (
	EventItemAdded   = "cart.item.added"
	EventItemUpdated = "cart.item.updated"
	EventItemRemoved = "cart.item.removed"
)

// Dispatcher receives cart events. Dispatch must not block on delivery and
// has no way to report failure back to the cart.
type Dispatcher interface {
	Dispatch(ctx context.Context, event string, payload any)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, string, any) {}

// Cart is a handle on one named cart inside a session store. It is not safe
// for concurrent mutation of the same cart.
type Cart struct {
	store       session.Store
	dispatcher  Dispatcher
	models      ModelResolver
	cfg         config.Config
	logger      zerolog.Logger
	sessionName string
}

// New creates a cart over store on the default instance. A nil dispatcher
// drops events.
func New(store session.Store, dispatcher Dispatcher, opts ...Option) *Cart {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	c := &Cart{
		store:      store,
		dispatcher: dispatcher,
		cfg:        config.Default(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c.Session("")
}

// Session switches the cart to the instance with the given name, or to the
// default instance for "". The store is not touched.
func (c *Cart) Session(name string) *Cart {
	if name == "" {
		name = DefaultInstance
	}
	c.sessionName = sessionPrefix + name
	return c
}

// CurrentSessionName returns the active instance name without the key prefix.
func (c *Cart) CurrentSessionName() string {
	return strings.TrimPrefix(c.sessionName, sessionPrefix)
}

// Add adds every source in order, pairing it with the options and variation
// at the same index. Lines added before a failure stay in the cart; the lines
// added so far are returned along with the error.
func (c *Cart) Add(ctx context.Context, sources []Source, options []Options, variations []Variation) ([]*Item, error) {
	items := make([]*Item, 0, len(sources))
	for i, src := range sources {
		var opts Options
		if i < len(options) {
			opts = options[i]
		}
		var variation Variation
		if i < len(variations) {
			variation = variations[i]
		}

		item, err := c.AddItem(ctx, src, opts, variation)
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// AddItem adds one line. When a line with the same product id and variation
// already exists its quantity is increased instead and its item id is kept.
// The configured tax rate is applied to the resulting line. A resulting
// quantity of zero or less removes the existing line, or adds nothing.
func (c *Cart) AddItem(ctx context.Context, src Source, options Options, variation Variation) (*Item, error) {
	item, err := NewItem(src, options, variation)
	if err != nil {
		return nil, err
	}
	c.bind(item)

	content, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	merged := false
	for _, existing := range content.All() {
		if sameValue(existing.id, item.id) && sameValue(existing.variation, item.variation) {
			item.quantity += existing.quantity
			item.itemID = existing.itemID
			merged = true
			break
		}
	}

	item.SetTaxRate(c.cfg.Tax)
	if item.quantity <= 0 {
		if !merged {
			return item, nil
		}
		if err := c.pull(ctx, content, item); err != nil {
			return nil, err
		}
		return item, nil
	}
	content.Put(item)

	c.dispatch(ctx, EventItemAdded, item)
	if err := c.persist(ctx, content); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. The item is returned in both cases.
func (c *Cart) UpdateQuantity(ctx context.Context, itemID string, quantity float64) (*Item, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return nil, invalidArgument("quantity")
	}

	item, _, err := c.update(ctx, itemID, func(item *Item) (Variation, error) {
		item.setQuantity(quantity)
		return item.variation, nil
	})
	return item, err
}

// Update changes the fields of a line from src. A nil src leaves the fields as
// they are. If the updated line now has the same name and variation as another
// line, the other line is folded into it and removed. A line whose quantity
// ends up at zero or less is removed, and Update returns a nil item.
func (c *Cart) Update(ctx context.Context, itemID string, src Source, options Options, variation Variation) (*Item, error) {
	item, removed, err := c.update(ctx, itemID, func(item *Item) (Variation, error) {
		switch s := src.(type) {
		case hasCartSource:
			if s.item != nil {
				if _, err := item.UpdateFromHasCart(s.item, options, variation); err != nil {
					return nil, err
				}
			}
		case Attributes:
			if _, err := item.UpdateFromAttributes(s, options, variation); err != nil {
				return nil, err
			}
		}
		return variation, nil
	})
	if err != nil || removed {
		return nil, err
	}
	return item, nil
}

func (c *Cart) update(ctx context.Context, itemID string, apply func(*Item) (Variation, error)) (*Item, bool, error) {
	content, err := c.load(ctx)
	if err != nil {
		return nil, false, err
	}
	item, ok := content.Get(itemID)
	if !ok {
		return nil, false, itemNotFound(itemID)
	}

	variation, err := apply(item)
	if err != nil {
		return nil, false, err
	}

	var collision *Item
	for id, other := range content.All() {
		if id != itemID && other.name == item.name && sameValue(other.variation, normalizeMap(variation)) {
			collision = other
			break
		}
	}
	if collision != nil {
		item.setQuantity(item.quantity + collision.quantity)
		if err := c.pull(ctx, content, collision); err != nil {
			return nil, false, err
		}
	}

	if item.quantity <= 0 {
		if err := c.pull(ctx, content, item); err != nil {
			return nil, false, err
		}
		return item, true, nil
	}

	content.Put(item)
	c.dispatch(ctx, EventItemUpdated, item)
	if err := c.persist(ctx, content); err != nil {
		return nil, false, err
	}
	return item, false, nil
}

// Remove deletes a line.
func (c *Cart) Remove(ctx context.Context, itemID string) error {
	content, err := c.load(ctx)
	if err != nil {
		return err
	}
	item, ok := content.Get(itemID)
	if !ok {
		return itemNotFound(itemID)
	}
	return c.pull(ctx, content, item)
}

func (c *Cart) pull(ctx context.Context, content *Content, item *Item) error {
	content.Pull(item.itemID)
	c.dispatch(ctx, EventItemRemoved, item)
	return c.persist(ctx, content)
}

// Get returns the line with the given item id, or an error matching
// ErrInvalidItemID.
func (c *Cart) Get(ctx context.Context, itemID string) (*Item, error) {
	content, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := content.Get(itemID)
	if !ok {
		return nil, itemNotFound(itemID)
	}
	return item, nil
}

// Content returns every line in insertion order. A cart that was never
// written is empty.
func (c *Cart) Content(ctx context.Context) (*Content, error) {
	return c.load(ctx)
}

// Count is the sum of all line quantities.
func (c *Cart) Count(ctx context.Context) (float64, error) {
	content, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	sum := decimal.Zero
	for _, item := range content.All() {
		sum = sum.Add(item.quantityDec())
	}
	return sum.InexactFloat64(), nil
}

// Total is the formatted sum of every line total, tax included.
func (c *Cart) Total(ctx context.Context, opts ...numfmt.Option) (string, error) {
	return c.sum(ctx, (*Item).totalDec, opts)
}

// Tax is the formatted sum of the tax of every line.
func (c *Cart) Tax(ctx context.Context, opts ...numfmt.Option) (string, error) {
	return c.sum(ctx, (*Item).taxTotalDec, opts)
}

// Subtotal is the formatted sum of every line subtotal, tax excluded.
func (c *Cart) Subtotal(ctx context.Context, opts ...numfmt.Option) (string, error) {
	return c.sum(ctx, (*Item).subtotalDec, opts)
}

func (c *Cart) sum(ctx context.Context, value func(*Item) decimal.Decimal, opts []numfmt.Option) (string, error) {
	content, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	sum := decimal.Zero
	for _, item := range content.All() {
		sum = sum.Add(value(item))
	}
	return c.format().With(opts...).Decimal(sum), nil
}

// Search returns the lines for which match returns true, in cart order.
func (c *Cart) Search(ctx context.Context, match func(item *Item, itemID string) bool) (*Content, error) {
	content, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return content.Filter(match), nil
}

// Associate links a line to a model. A string model must be known to the
// model resolver, otherwise ErrUnknownModel is returned. Any other value
// associates the line with its ModelName. No event is dispatched.
func (c *Cart) Associate(ctx context.Context, itemID string, model any) error {
	if name, ok := model.(string); ok {
		if c.models == nil || !c.models.Exists(name) {
			return fmt.Errorf("%w: the supplied model %s does not exist", ErrUnknownModel, name)
		}
	}

	content, err := c.load(ctx)
	if err != nil {
		return err
	}
	item, ok := content.Get(itemID)
	if !ok {
		return itemNotFound(itemID)
	}

	item.Associate(model)
	content.Put(item)
	return c.persist(ctx, content)
}

// SetTax overrides the tax rate of one line. The rate must be within 0..100.
// No event is dispatched.
func (c *Cart) SetTax(ctx context.Context, itemID string, rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 100 {
		return invalidArgument("tax rate")
	}

	content, err := c.load(ctx)
	if err != nil {
		return err
	}
	item, ok := content.Get(itemID)
	if !ok {
		return itemNotFound(itemID)
	}

	item.SetTaxRate(rate)
	content.Put(item)
	return c.persist(ctx, content)
}

// Destroy removes the active instance from the session store. Destroying a
// cart that does not exist is not an error.
func (c *Cart) Destroy(ctx context.Context) error {
	if err := c.store.Remove(ctx, c.sessionName); err != nil {
		return fmt.Errorf("destroying cart %s: %w", c.CurrentSessionName(), err)
	}
	c.logger.Debug().Str("session", c.sessionName).Msg("cart destroyed")
	return nil
}

// DestroyInstances removes the named instances without switching the active
// one. Every instance is attempted; failures are combined.
func (c *Cart) DestroyInstances(ctx context.Context, names ...string) error {
	var errs error
	for _, name := range names {
		if name == "" {
			name = DefaultInstance
		}
		if err := c.store.Remove(ctx, sessionPrefix+name); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("destroying cart %s: %w", name, err))
		}
	}
	return errs
}

func (c *Cart) format() numfmt.Format {
	return numfmt.Format{
		Decimals:          c.cfg.Format.Decimals,
		DecimalPoint:      c.cfg.Format.DecimalPoint,
		ThousandSeparator: c.cfg.Format.ThousandSeparator,
	}
}

func (c *Cart) bind(item *Item) {
	item.format = c.format()
	item.models = c.models
}

func (c *Cart) load(ctx context.Context) (*Content, error) {
	raw, err := c.store.Get(ctx, c.sessionName)
	if err != nil {
		return nil, fmt.Errorf("loading cart %s: %w", c.CurrentSessionName(), err)
	}
	content := NewContent()
	if raw == nil {
		return content, nil
	}
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, err
	}
	for _, item := range content.All() {
		c.bind(item)
	}
	return content, nil
}

func (c *Cart) persist(ctx context.Context, content *Content) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encoding cart %s: %w", c.CurrentSessionName(), err)
	}
	if err := c.store.Put(ctx, c.sessionName, raw); err != nil {
		return fmt.Errorf("saving cart %s: %w", c.CurrentSessionName(), err)
	}
	return nil
}

func (c *Cart) dispatch(ctx context.Context, event string, item *Item) {
	c.logger.Debug().
		Str("session", c.sessionName).
		Str("event", event).
		Str("item_id", item.itemID).
		Float64("quantity", item.quantity).
		Msg("cart event")
	c.dispatcher.Dispatch(ctx, event, item)
}
