package queries

import (
	"context"
	"errors"
	"testing"
)

type countQuery struct{ N int }

func (countQuery) Key() string { return "test.count" }

type strayQuery struct{}

func (strayQuery) Key() string { return "test.count" }

func TestAskReturnsTypedResult(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[countQuery, int](bus, countQuery{}.Key(), HandlerFunc[countQuery, int](func(ctx context.Context, q countQuery) (int, error) {
		return q.N * 2, nil
	}))

	got, err := Ask[countQuery, int](context.Background(), bus, countQuery{N: 21})
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d err %v", got, err)
	}
	if _, err := Ask[countQuery, string](context.Background(), bus, countQuery{}); !errors.Is(err, ErrResultType) {
		t.Fatalf("expected result type error, got %v", err)
	}
	if _, err := bus.Ask(context.Background(), strayQuery{}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected invalid query for a foreign type on the same key, got %v", err)
	}
}

func TestAskWithoutRoute(t *testing.T) {
	if _, err := NewInMemoryBus().Ask(context.Background(), countQuery{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected handler not found, got %v", err)
	}
	if _, err := Ask[countQuery, int](context.Background(), nil, countQuery{}); !errors.Is(err, ErrNilBus) {
		t.Fatalf("expected nil bus error, got %v", err)
	}
}
