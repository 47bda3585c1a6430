package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainbooking "stayhub/internal/domain/booking"
	"stayhub/internal/domain/shared/daterange"
	domainuser "stayhub/internal/domain/user"
)

func TestProfileEmailsAreUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	if err := repo.Save(ctx, &domainuser.User{ID: "u-1", Email: "ana@example.com", Roles: []domainuser.Role{domainuser.RoleGuest}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := repo.Save(ctx, &domainuser.User{ID: "u-2", Email: " ANA@example.com"})
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	got, err := repo.ByEmail(ctx, "Ana@Example.com")
	if err != nil || got.ID != "u-1" {
		t.Fatalf("lookup by email: %+v %v", got, err)
	}
	got.Roles[0] = domainuser.RoleHost
	again, _ := repo.ByID(ctx, "u-1")
	if again.Roles[0] != domainuser.RoleGuest {
		t.Fatal("returned profiles must not alias stored state")
	}
	if _, err := repo.ByID(ctx, "missing"); !errors.Is(err, domainuser.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionsDeleteByUser(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	for _, s := range []domainauth.Session{
		{Token: "t-1", UserID: "u-1"},
		{Token: "t-2", UserID: "u-1"},
		{Token: "t-3", UserID: "u-2"},
	} {
		if err := store.Save(ctx, &s); err != nil {
			t.Fatalf("save %s: %v", s.Token, err)
		}
	}
	if err := store.DeleteByUser(ctx, "u-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "t-2"); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("expected u-1 sessions gone, got %v", err)
	}
	if _, err := store.Get(ctx, "t-3"); err != nil {
		t.Fatalf("u-2 session must survive: %v", err)
	}
	if err := store.Delete(ctx, "unknown"); err != nil {
		t.Fatalf("deleting an unknown token should succeed: %v", err)
	}
}

func stay(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	if err != nil {
		t.Fatal(err)
	}
	return dr
}

func TestBookingListings(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := []*domainbooking.Booking{
		{ID: "b-1", PropertyID: "p-1", CustomerID: "c-1", Stay: stay(t, "2025-06-10", "2025-06-12"), Status: domainbooking.StatusConfirmed, CreatedAt: base},
		{ID: "b-2", PropertyID: "p-1", CustomerID: "c-1", Stay: stay(t, "2025-06-20", "2025-06-22"), Status: domainbooking.StatusPending, CreatedAt: base.Add(time.Hour)},
		{ID: "b-3", PropertyID: "p-2", CustomerID: "c-2", Stay: stay(t, "2025-06-01", "2025-06-05"), Status: domainbooking.StatusConfirmed, CreatedAt: base},
	}
	for _, b := range seed {
		if err := repo.Save(ctx, b); err != nil {
			t.Fatalf("save %s: %v", b.ID, err)
		}
	}

	mine, _ := repo.ListByCustomer(ctx, "c-1")
	if len(mine) != 2 || mine[0].ID != "b-2" {
		t.Fatalf("expected newest first, got %v", ids(mine))
	}
	confirmed, _ := repo.ListByProperty(ctx, "p-1", domainbooking.StatusConfirmed)
	if len(confirmed) != 1 || confirmed[0].ID != "b-1" {
		t.Fatalf("expected only the confirmed stay, got %v", ids(confirmed))
	}
	all, _ := repo.ListByProperty(ctx, "p-1")
	if len(all) != 2 {
		t.Fatalf("no status filter should return every booking, got %v", ids(all))
	}
	ended, _ := repo.ListConfirmedEndingBefore(ctx, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
	if len(ended) != 2 {
		t.Fatalf("expected b-3 and b-1 to have ended, got %v", ids(ended))
	}
}

func TestBookingSaveBumpsVersionAndCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	b := &domainbooking.Booking{ID: "b-1", PropertyID: "p-1", CustomerID: "c-1", Status: domainbooking.StatusPending}
	if err := repo.Save(ctx, b); err != nil {
		t.Fatal(err)
	}
	b.Status = domainbooking.StatusCancelled
	stored, _ := repo.ByID(ctx, "b-1")
	if stored.Status != domainbooking.StatusPending || stored.Version != 1 {
		t.Fatalf("unexpected stored booking %+v", stored)
	}
	if _, err := repo.ByID(ctx, "nope"); !errors.Is(err, domainbooking.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func ids(bs []*domainbooking.Booking) []domainbooking.BookingID {
	out := make([]domainbooking.BookingID, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestOutboxClaimRetryAndSend(t *testing.T) {
	ctx := context.Background()
	box := NewOutbox()
	_ = box.Add(ctx, appoutbox.EventRecord{ID: "e-1", Name: "booking.requested", Payload: []byte(`{}`)})

	msg, err := box.Claim(ctx, "w-1")
	if err != nil || msg == nil || msg.ID != "e-1" {
		t.Fatalf("expected to claim e-1, got %+v %v", msg, err)
	}
	if again, _ := box.Claim(ctx, "w-2"); again != nil {
		t.Fatal("a claimed event must not be handed out twice")
	}

	_ = box.MarkFailed(ctx, "e-1", time.Now().Add(time.Hour), "broker down")
	if later, _ := box.Claim(ctx, "w-1"); later != nil {
		t.Fatal("a failed event waits for its retry time")
	}
	_ = box.MarkFailed(ctx, "e-1", time.Now().Add(-time.Second), "broker down")
	retry, _ := box.Claim(ctx, "w-1")
	if retry == nil || retry.Attempts != 2 {
		t.Fatalf("expected a second attempt, got %+v", retry)
	}

	_ = box.MarkSent(ctx, "e-1")
	if pending := box.Pending(); len(pending) != 0 {
		t.Fatalf("sent events leave the queue, still have %d", len(pending))
	}
}

func TestIdempotencyRecordsExpire(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore(time.Minute)
	_ = store.Save(ctx, middleware.IdempotencyRecord{Key: "fresh", OccurredAt: time.Now()})
	_ = store.Save(ctx, middleware.IdempotencyRecord{Key: "stale", OccurredAt: time.Now().Add(-2 * time.Minute)})

	if _, ok, _ := store.Get(ctx, "fresh"); !ok {
		t.Fatal("fresh record should be found")
	}
	if _, ok, _ := store.Get(ctx, "stale"); ok {
		t.Fatal("stale record should have expired")
	}
}

func TestFactoryRejectsMissingRepositories(t *testing.T) {
	if _, err := (Factory{}).Begin(context.Background(), uow.TxOptions{}); !errors.Is(err, ErrFactoryMisconfigured) {
		t.Fatalf("expected misconfiguration error, got %v", err)
	}
	unit, err := NewFactory(nil).Begin(context.Background(), uow.TxOptions{ReadOnly: true})
	if err != nil || unit.Profiles() == nil {
		t.Fatalf("fresh factory should be usable: %v", err)
	}
}
