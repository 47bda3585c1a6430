// Package commands routes write requests (bookings, reviews, listings,
// profile edits) to exactly one handler each.
package commands

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrHandlerNotFound = errors.New("commands: handler not found")
	ErrInvalidCommand  = errors.New("commands: invalid command for handler")
	ErrResultType      = errors.New("commands: result type mismatch")
	ErrNilBus          = errors.New("commands: nil bus")
)

// Command is a write intent. Key names its route on the bus.
type Command interface {
	Key() string
}

// Handler returns *apperr.Error values so transports can classify failures
// without knowing domain sentinels.
type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

type HandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Bus is what middleware wraps and transports call.
type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

// RawHandler is a type-erased route.
type RawHandler func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus is filled at startup and read-only afterwards, so it needs no lock.
type InMemoryBus struct {
	routes map[string]RawHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{routes: map[string]RawHandler{}}
}

// RegisterRaw panics on an empty or duplicate key; both are wiring bugs.
func (b *InMemoryBus) RegisterRaw(key string, handler RawHandler) {
	switch {
	case key == "":
		panic("commands: empty key registration")
	case handler == nil:
		panic(fmt.Sprintf("commands: nil handler for %q", key))
	}
	if _, taken := b.routes[key]; taken {
		panic(fmt.Sprintf("commands: duplicate handler for %q", key))
	}
	b.routes[key] = handler
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	if cmd == nil {
		return nil, ErrInvalidCommand
	}
	route, ok := b.routes[cmd.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return route(ctx, cmd)
}

// Keys lists the registered routes in order.
func (b *InMemoryBus) Keys() []string {
	return slices.Sorted(maps.Keys(b.routes))
}

// RegisterHandler binds a typed handler; a command of another type arriving
// on the same key is rejected with ErrInvalidCommand.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, handler Handler[C, R]) {
	if bus == nil {
		panic("commands: nil bus")
	}
	bus.RegisterRaw(key, func(ctx context.Context, raw Command) (any, error) {
		if cmd, ok := raw.(C); ok {
			return handler.Handle(ctx, cmd)
		}
		return nil, fmt.Errorf("%w: %s got %T", ErrInvalidCommand, key, raw)
	})
}

// Dispatch sends cmd and asserts the result type. A nil result yields the
// zero R.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var out R
	if bus == nil {
		return out, ErrNilBus
	}
	res, err := bus.Dispatch(ctx, cmd)
	if err != nil || res == nil {
		return out, err
	}
	typed, ok := res.(R)
	if !ok {
		return out, fmt.Errorf("%w: %s returned %T", ErrResultType, cmd.Key(), res)
	}
	return typed, nil
}
