// Package models resolves the domain objects cart lines are associated with.
// A Registry maps model names to finders backed by any store.
package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotRegistered is returned by Find for a model name nobody registered.
var ErrNotRegistered = errors.New("model not registered")

// Finder fetches one instance of a model by its product id.
type Finder interface {
	Find(ctx context.Context, id any) (any, error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(ctx context.Context, id any) (any, error)

func (f FinderFunc) Find(ctx context.Context, id any) (any, error) {
	return f(ctx, id)
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	finders map[string]Finder
}

func NewRegistry() *Registry {
	return &Registry{finders: make(map[string]Finder)}
}

// Register binds name to finder, replacing any earlier registration.
func (r *Registry) Register(name string, finder Finder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finders[name] = finder
}

func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.finders[name]
	return ok
}

func (r *Registry) Find(ctx context.Context, model string, id any) (any, error) {
	r.mu.RLock()
	finder, ok := r.finders[model]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, model)
	}
	return finder.Find(ctx, id)
}
