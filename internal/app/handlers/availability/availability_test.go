package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayhub/internal/app/apperr"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/infra/storage/memory"
)

func seedFactory(t *testing.T) memory.Factory {
	t.Helper()
	p, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:           "p-1",
		HostID:       "host-1",
		Name:         "Cabin",
		NightlyPrice: money.Must(12000, "USD"),
		Location:     domainproperties.Location{City: "Bergen", Country: "Norway"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return memory.NewFactory(nil, p)
}

func storeBooking(t *testing.T, repo domainbooking.Repository, id, in, out string, confirm bool) {
	t.Helper()
	stay, err := daterange.Parse(in, out)
	if err != nil {
		t.Fatal(err)
	}
	quote, err := domainpricing.QuoteStay(money.Must(12000, "USD"), stay)
	if err != nil {
		t.Fatal(err)
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		PropertyID: "p-1",
		CustomerID: "cust-1",
		Stay:       stay,
		Guests:     2,
		Quote:      quote,
		CreatedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if confirm {
		if err := b.Confirm(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Save(context.Background(), b); err != nil {
		t.Fatal(err)
	}
}

func TestCheckAvailability(t *testing.T) {
	f := seedFactory(t)
	storeBooking(t, f.BookingsRepo, "b-1", "2025-06-10", "2025-06-13", true)
	storeBooking(t, f.BookingsRepo, "b-2", "2025-06-20", "2025-06-25", false)
	h := &CheckAvailabilityHandler{UoWFactory: f}

	cases := []struct {
		in, out string
		want    bool
	}{
		{"2025-06-05", "2025-06-09", true},
		{"2025-06-05", "2025-06-10", false},
		{"2025-06-13", "2025-06-14", false},
		{"2025-06-14", "2025-06-16", true},
		{"2025-06-21", "2025-06-22", true},
	}
	for _, tc := range cases {
		got, err := h.Handle(context.Background(), CheckAvailabilityQuery{PropertyID: "p-1", CheckIn: tc.in, CheckOut: tc.out})
		if err != nil {
			t.Fatalf("%s..%s: %v", tc.in, tc.out, err)
		}
		if got.Available != tc.want {
			t.Fatalf("%s..%s: expected available=%v", tc.in, tc.out, tc.want)
		}
	}
}

func TestCheckAvailabilityUnknownProperty(t *testing.T) {
	h := &CheckAvailabilityHandler{UoWFactory: seedFactory(t)}
	_, err := h.Handle(context.Background(), CheckAvailabilityQuery{PropertyID: "nope", CheckIn: "2025-06-10", CheckOut: "2025-06-11"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckAvailabilityRejectsBadRange(t *testing.T) {
	h := &CheckAvailabilityHandler{UoWFactory: seedFactory(t)}
	_, err := h.Handle(context.Background(), CheckAvailabilityQuery{PropertyID: "p-1", CheckIn: "2025-06-10", CheckOut: "2025-06-10"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type brokenBookings struct {
	domainbooking.Repository
}

func (brokenBookings) ListByProperty(context.Context, domainproperties.PropertyID, ...domainbooking.Status) ([]*domainbooking.Booking, error) {
	return nil, errors.New("timeout")
}

func TestCheckerFailsClosed(t *testing.T) {
	stay, _ := daterange.Parse("2025-06-10", "2025-06-11")
	var c Checker
	if c.IsAvailable(context.Background(), brokenBookings{}, "p-1", stay) {
		t.Fatal("expected unavailable when bookings cannot be read")
	}
	if err := c.Conflict(context.Background(), brokenBookings{}, "p-1", stay, ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestConflictSkipsNamedBooking(t *testing.T) {
	f := seedFactory(t)
	storeBooking(t, f.BookingsRepo, "b-1", "2025-06-10", "2025-06-13", true)
	stay, _ := daterange.Parse("2025-06-10", "2025-06-13")
	var c Checker
	if err := c.Conflict(context.Background(), f.BookingsRepo, "p-1", stay, "b-1"); err != nil {
		t.Fatalf("expected own booking to be skipped, got %v", err)
	}
	err := c.Conflict(context.Background(), f.BookingsRepo, "p-1", stay, "")
	var overlap *OverlapError
	if !errors.As(err, &overlap) || overlap.BookingID != "b-1" {
		t.Fatalf("expected overlap with b-1, got %v", err)
	}
}
