package cart

import (
	"github.com/rs/zerolog"

	"github.com/creastat/cart/config"
)

// Option configures a Cart.
type Option func(*Cart)

// WithConfig sets the tax rate and number format the cart applies.
func WithConfig(cfg config.Config) Option {
	return func(c *Cart) {
		c.cfg = cfg
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cart) {
		c.logger = logger
	}
}

// WithModelResolver sets the resolver used by Associate and Item.Model.
func WithModelResolver(models ModelResolver) Option {
	return func(c *Cart) {
		c.models = models
	}
}
