package commands

import (
	"context"
	"errors"
	"testing"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatchRoutesToTypedHandler(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[pingCommand, string](bus, pingCommand{}.Key(), HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "pong:" + cmd.Value, nil
	}))
	got, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "x"})
	if err != nil || got != "pong:x" {
		t.Fatalf("unexpected result %q err %v", got, err)
	}
	if _, err := Dispatch[pingCommand, int](context.Background(), bus, pingCommand{}); !errors.Is(err, ErrResultType) {
		t.Fatalf("expected result type error, got %v", err)
	}
	if _, err := bus.Dispatch(context.Background(), otherCommand{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected handler not found, got %v", err)
	}
	if keys := bus.Keys(); len(keys) != 1 || keys[0] != "test.ping" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	bus := NewInMemoryBus()
	noop := func(ctx context.Context, cmd Command) (any, error) { return nil, nil }
	bus.RegisterRaw("dup", noop)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate key")
		}
	}()
	bus.RegisterRaw("dup", noop)
}
