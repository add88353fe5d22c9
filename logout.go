package cart

import "context"

// LogoutEvent is the event name the host publishes when a user logs out.
const LogoutEvent = "auth.logout"

// Logout is the payload of LogoutEvent.
type Logout struct {
	Guard  string
	UserID any
}

// Subscriber is the listening side of the host's event bus. events.Bus
// satisfies it.
type Subscriber interface {
	Listen(event string, fn func(ctx context.Context, event string, payload any))
}

// RegisterLogoutHook destroys the given cart instances (the default instance
// when none are given) whenever a user of the configured guard logs out. It
// does nothing unless the cart is configured with DestroyOnLogout.
func RegisterLogoutHook(sub Subscriber, c *Cart, instances ...string) {
	if !c.cfg.DestroyOnLogout {
		return
	}
	if len(instances) == 0 {
		instances = []string{DefaultInstance}
	}

	sub.Listen(LogoutEvent, func(ctx context.Context, _ string, payload any) {
		if !c.logoutMatches(payload) {
			return
		}
		if err := c.DestroyInstances(ctx, instances...); err != nil {
			c.logger.Error().Err(err).Strs("instances", instances).Msg("destroying carts on logout")
			return
		}
		c.logger.Debug().Strs("instances", instances).Msg("carts destroyed on logout")
	})
}

// logoutMatches accepts a Logout (or *Logout) for the configured guard. An
// empty guard on either side matches everything, as does any other payload.
func (c *Cart) logoutMatches(payload any) bool {
	var guard string
	switch e := payload.(type) {
	case Logout:
		guard = e.Guard
	case *Logout:
		if e != nil {
			guard = e.Guard
		}
	}
	return guard == "" || c.cfg.Guard == "" || guard == c.cfg.Guard
}
