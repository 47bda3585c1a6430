package reviews

import (
	"context"
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

var stayStart = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func newFactory(t *testing.T) memory.Factory {
	t.Helper()
	property, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:           "p-1",
		HostID:       "host-1",
		Name:         "Garden flat",
		NightlyPrice: money.Must(8000, "EUR"),
		Location:     domainproperties.Location{City: "Porto", Country: "Portugal"},
		Now:          stayStart.AddDate(0, -2, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	return memory.NewFactory(nil, property)
}

// addStay stores a booking for customer, completed when complete is set.
func addStay(t *testing.T, f memory.Factory, id, customer string, complete bool) {
	t.Helper()
	stay, err := daterange.New(stayStart, stayStart.AddDate(0, 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	quote, err := domainpricing.QuoteStay(money.Must(8000, "EUR"), stay)
	if err != nil {
		t.Fatal(err)
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		PropertyID: "p-1",
		CustomerID: customer,
		Stay:       stay,
		Guests:     1,
		Quote:      quote,
		CreatedAt:  stayStart.AddDate(0, -1, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if complete {
		if err := b.Confirm(stayStart.AddDate(0, 0, -20)); err != nil {
			t.Fatal(err)
		}
		if err := b.Complete(stayStart.AddDate(0, 0, 3)); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.BookingsRepo.Save(context.Background(), b); err != nil {
		t.Fatal(err)
	}
}

func TestSubmitReviewRequiresCompletedStay(t *testing.T) {
	f := newFactory(t)
	addStay(t, f, "b-1", "cust-1", false)
	h := &SubmitReviewHandler{UoWFactory: f}

	for _, rating := range []int{4, 9} {
		_, err := h.Handle(context.Background(), SubmitReviewCommand{PropertyID: "p-1", CustomerID: "cust-1", Rating: rating})
		if apperr.KindOf(err) != apperr.KindNotEligible {
			t.Fatalf("rating %d: expected not eligible, got %v", rating, err)
		}
	}
}

func TestSubmitReviewRejectsInvalidRatingForEligibleCustomer(t *testing.T) {
	f := newFactory(t)
	addStay(t, f, "b-1", "cust-1", true)
	h := &SubmitReviewHandler{UoWFactory: f}
	_, err := h.Handle(context.Background(), SubmitReviewCommand{PropertyID: "p-1", CustomerID: "cust-1", Rating: 6})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitReviewOncePerPropertyAndRefreshesRating(t *testing.T) {
	f := newFactory(t)
	addStay(t, f, "b-1", "cust-1", true)
	addStay(t, f, "b-2", "cust-2", true)
	h := &SubmitReviewHandler{UoWFactory: f}
	ctx := context.Background()

	got, err := h.Handle(ctx, SubmitReviewCommand{PropertyID: "p-1", CustomerID: "cust-1", Rating: 5, Comment: "Lovely"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.Author != "Anonymous" {
		t.Fatalf("expected anonymous author, got %q", got.Author)
	}
	if _, err := h.Handle(ctx, SubmitReviewCommand{PropertyID: "p-1", CustomerID: "cust-1", Rating: 3}); apperr.KindOf(err) != apperr.KindDuplicateReview {
		t.Fatalf("expected duplicate review, got %v", err)
	}
	if _, err := h.Handle(ctx, SubmitReviewCommand{PropertyID: "p-1", CustomerID: "cust-2", Rating: 4}); err != nil {
		t.Fatalf("second customer: %v", err)
	}

	property, err := f.PropertiesRepo.ByID(ctx, "p-1")
	if err != nil {
		t.Fatal(err)
	}
	if property.Rating == nil || *property.Rating != 4.5 || property.ReviewCount != 2 {
		t.Fatalf("expected rating 4.5 over 2 reviews, got %v / %d", property.Rating, property.ReviewCount)
	}

	list, err := (&ListPropertyReviewsHandler{UoWFactory: f}).Handle(ctx, ListPropertyReviewsQuery{PropertyID: "p-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected two reviews, got %d", len(list.Items))
	}
}

func TestSubmitReviewUnknownProperty(t *testing.T) {
	f := newFactory(t)
	h := &SubmitReviewHandler{UoWFactory: f}
	_, err := h.Handle(context.Background(), SubmitReviewCommand{PropertyID: "nope", CustomerID: "cust-1", Rating: 5})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCanReview(t *testing.T) {
	f := newFactory(t)
	addStay(t, f, "b-1", "cust-1", true)
	addStay(t, f, "b-2", "cust-2", false)
	h := &CanReviewHandler{UoWFactory: f}
	ctx := context.Background()

	cases := []struct {
		customer string
		want     bool
	}{
		{"cust-1", true},
		{"cust-2", false},
		{"cust-3", false},
	}
	for _, tc := range cases {
		got, err := h.Handle(ctx, CanReviewQuery{PropertyID: "p-1", CustomerID: tc.customer})
		if err != nil {
			t.Fatalf("%s: %v", tc.customer, err)
		}
		if got.CanReview != tc.want {
			t.Fatalf("%s: expected can_review=%v, got %+v", tc.customer, tc.want, got)
		}
	}

	if _, err := (&SubmitReviewHandler{UoWFactory: f}).Handle(ctx, SubmitReviewCommand{PropertyID: "p-1", CustomerID: "cust-1", Rating: 5}); err != nil {
		t.Fatal(err)
	}
	got, err := h.Handle(ctx, CanReviewQuery{PropertyID: "p-1", CustomerID: "cust-1"})
	if err != nil {
		t.Fatal(err)
	}
	if !got.CanReview || !got.Reviewed {
		t.Fatalf("a completed stay keeps the customer eligible after reviewing, got %+v", got)
	}
}
