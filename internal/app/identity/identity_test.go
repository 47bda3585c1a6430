package identity

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/app/apperr"
)

func TestRequire(t *testing.T) {
	if _, err := Require(context.Background()); !errors.Is(err, apperr.ErrAuthRequired) {
		t.Fatalf("expected auth required, got %v", err)
	}
	ctx := WithContext(context.Background(), Identity{UserID: "u-1", Roles: []string{"Host"}})
	id, err := Require(ctx)
	if err != nil || id.UserID != "u-1" {
		t.Fatalf("unexpected identity %+v err %v", id, err)
	}
	if !id.HasRole("host") || id.HasRole("admin") {
		t.Fatal("unexpected role check")
	}
}
