package pricing

import (
	"testing"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

func TestQuoteStayMultipliesNights(t *testing.T) {
	stay, err := daterange.Parse("2025-06-10", "2025-06-13")
	if err != nil {
		t.Fatal(err)
	}
	q, err := QuoteStay(money.Must(10000, "USD"), stay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Nights != 3 || q.Total.Amount != 30000 {
		t.Fatalf("expected 3 nights totalling 300.00, got %d nights %s", q.Nights, q.Total)
	}
}

func TestQuoteStayRejectsFreeRate(t *testing.T) {
	stay, _ := daterange.Parse("2025-06-10", "2025-06-11")
	if _, err := QuoteStay(money.Must(0, "USD"), stay); err != ErrNightlyRateRequired {
		t.Fatalf("expected ErrNightlyRateRequired, got %v", err)
	}
}
