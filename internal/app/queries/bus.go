// Package queries routes read requests to their handlers. Query handlers
// open read-only units of work and never mutate state.
package queries

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrHandlerNotFound = errors.New("queries: handler not found")
	ErrInvalidQuery    = errors.New("queries: invalid query for handler")
	ErrResultType      = errors.New("queries: result type mismatch")
	ErrNilBus          = errors.New("queries: nil bus")
)

type Query interface {
	Key() string
}

type Handler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type HandlerFunc[Q Query, R any] func(ctx context.Context, query Q) (R, error)

func (f HandlerFunc[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	return f(ctx, query)
}

type Bus interface {
	Ask(ctx context.Context, query Query) (any, error)
}

type RawHandler func(ctx context.Context, query Query) (any, error)

// InMemoryBus is filled at startup and read-only afterwards.
type InMemoryBus struct {
	routes map[string]RawHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: map[string]RawHandler{}}
}

func (b *InMemoryBus) RegisterRaw(key string, handler RawHandler) {
	switch {
	case key == "":
		panic("queries: empty key registration")
	case handler == nil:
		panic(fmt.Sprintf("queries: nil handler for %q", key))
	}
	if _, taken := b.routes[key]; taken {
		panic(fmt.Sprintf("queries: duplicate handler for %q", key))
	}
	b.routes[key] = handler
}

func (b *InMemoryBus) Ask(ctx context.Context, query Query) (any, error) {
	if query == nil {
		return nil, ErrInvalidQuery
	}
	route, ok := b.routes[query.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, query.Key())
	}
	return route(ctx, query)
}

func (b *InMemoryBus) Keys() []string {
	return slices.Sorted(maps.Keys(b.routes))
}

func RegisterHandler[Q Query, R any](bus *InMemoryBus, key string, handler Handler[Q, R]) {
	if bus == nil {
		panic("queries: nil bus")
	}
	bus.RegisterRaw(key, func(ctx context.Context, raw Query) (any, error) {
		if q, ok := raw.(Q); ok {
			return handler.Handle(ctx, q)
		}
		return nil, fmt.Errorf("%w: %s got %T", ErrInvalidQuery, key, raw)
	})
}

// Ask runs query and asserts the result type.
func Ask[Q Query, R any](ctx context.Context, bus Bus, query Q) (R, error) {
	var out R
	if bus == nil {
		return out, ErrNilBus
	}
	res, err := bus.Ask(ctx, query)
	if err != nil || res == nil {
		return out, err
	}
	typed, ok := res.(R)
	if !ok {
		return out, fmt.Errorf("%w: %s returned %T", ErrResultType, query.Key(), res)
	}
	return typed, nil
}
