package me

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/app/apperr"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newFactory(t *testing.T) memory.Factory {
	t.Helper()
	users := memory.NewProfileRepository()
	u, err := domainuser.NewUser(domainuser.CreateParams{ID: "u-1", Email: "ana@example.com", FirstName: "Ana", PasswordHash: "hash", CreatedAt: now})
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Save(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	var seed []*domainproperties.Property
	for _, id := range []domainproperties.PropertyID{"p-1", "p-2"} {
		p, err := domainproperties.NewProperty(domainproperties.CreateParams{
			ID:           id,
			HostID:       "host-1",
			Name:         "Stay " + string(id),
			NightlyPrice: money.Must(5000, "USD"),
			Location:     domainproperties.Location{City: "Lima", Country: "Peru"},
			Now:          now,
		})
		if err != nil {
			t.Fatal(err)
		}
		seed = append(seed, p)
	}
	return memory.NewFactory(users, seed...)
}

func ptr(s string) *string { return &s }

func TestUpdateProfileLeavesNilFieldsUntouched(t *testing.T) {
	f := newFactory(t)
	h := &UpdateProfileHandler{UoWFactory: f}
	got, err := h.Handle(context.Background(), UpdateProfileCommand{UserID: "u-1", LastName: ptr("Silva"), Now: now})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FirstName != "Ana" || got.LastName != "Silva" {
		t.Fatalf("unexpected profile %+v", got)
	}

	profile, err := (&GetProfileHandler{UoWFactory: f}).Handle(context.Background(), GetProfileQuery{UserID: "u-1"})
	if err != nil {
		t.Fatal(err)
	}
	if profile.LastName != "Silva" {
		t.Fatalf("expected stored last name, got %+v", profile)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	f := newFactory(t)
	h := &UpdateProfileHandler{UoWFactory: f}
	cases := []struct {
		name string
		cmd  UpdateProfileCommand
	}{
		{"blank first name", UpdateProfileCommand{UserID: "u-1", FirstName: ptr("  ")}},
		{"short phone", UpdateProfileCommand{UserID: "u-1", Phone: ptr("12")}},
		{"avatar scheme", UpdateProfileCommand{UserID: "u-1", AvatarURL: ptr("ftp://x/y.png")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := h.Handle(context.Background(), tc.cmd); apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	_, err := (&GetProfileHandler{UoWFactory: newFactory(t)}).Handle(context.Background(), GetProfileQuery{UserID: "ghost"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSavedPropertiesRoundTrip(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	save := &SavePropertyHandler{UoWFactory: f}

	if _, err := save.Handle(ctx, SavePropertyCommand{CustomerID: "u-1", PropertyID: "p-1", Now: now}); err != nil {
		t.Fatal(err)
	}
	if _, err := save.Handle(ctx, SavePropertyCommand{CustomerID: "u-1", PropertyID: "p-2", Now: now.Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if _, err := save.Handle(ctx, SavePropertyCommand{CustomerID: "u-1", PropertyID: "p-1", Now: now.Add(time.Hour)}); err != nil {
		t.Fatalf("saving twice should succeed: %v", err)
	}
	if _, err := save.Handle(ctx, SavePropertyCommand{CustomerID: "u-1", PropertyID: "missing", Now: now}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for unknown property, got %v", err)
	}

	list := &ListSavedHandler{UoWFactory: f}
	got, err := list.Handle(ctx, ListSavedQuery{CustomerID: "u-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 || got.Items[0].Property.ID != "p-2" {
		t.Fatalf("expected p-2 then p-1, got %+v", got.Items)
	}
	if !got.Items[1].SavedAt.Equal(now) {
		t.Fatalf("expected first save time kept, got %s", got.Items[1].SavedAt)
	}

	unsave := &UnsavePropertyHandler{UoWFactory: f}
	for i := 0; i < 2; i++ {
		if _, err := unsave.Handle(ctx, UnsavePropertyCommand{CustomerID: "u-1", PropertyID: "p-2"}); err != nil {
			t.Fatalf("unsave %d: %v", i, err)
		}
	}
	got, _ = list.Handle(ctx, ListSavedQuery{CustomerID: "u-1"})
	if len(got.Items) != 1 || got.Items[0].Property.ID != "p-1" {
		t.Fatalf("expected only p-1 left, got %+v", got.Items)
	}
}
