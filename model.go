package cart

import (
	"context"
	"reflect"
)

// ModelResolver looks up the domain object an item is associated with.
type ModelResolver interface {
	// Exists reports whether model names a registered model.
	Exists(model string) bool
	// Find fetches the model instance with the given product id.
	Find(ctx context.Context, model string, id any) (any, error)
}

// Named lets a model choose the name it is associated under.
type Named interface {
	CartModelName() string
}

// ModelName returns the association name for v: CartModelName when v
// implements Named, otherwise its Go type name with pointers stripped.
func ModelName(v any) string {
	if v == nil {
		return ""
	}
	if n, ok := v.(Named); ok {
		return n.CartModelName()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
