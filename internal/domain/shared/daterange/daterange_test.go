package daterange

import (
	"math/rand"
	"testing"
	"time"
)

func mustParse(t *testing.T, in, out string) DateRange {
	t.Helper()
	dr, err := Parse(in, out)
	if err != nil {
		t.Fatalf("parse %s..%s: %v", in, out, err)
	}
	return dr
}

func TestParseRejectsInvertedAndEmptyRanges(t *testing.T) {
	cases := []struct {
		name     string
		in, out  string
		expected error
	}{
		{"same day", "2025-06-10", "2025-06-10", ErrInvalidRange},
		{"inverted", "2025-06-13", "2025-06-10", ErrInvalidRange},
		{"bad format", "10/06/2025", "2025-06-13", ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.in, tc.out); err != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestNightsCountsCalendarDays(t *testing.T) {
	dr := mustParse(t, "2025-06-10", "2025-06-13")
	if got := dr.Nights(); got != 3 {
		t.Fatalf("expected 3 nights, got %d", got)
	}

	partial := DateRange{
		CheckIn:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 11, 1, 0, 0, 0, time.UTC),
	}
	if got := partial.Nights(); got != 2 {
		t.Fatalf("expected partial day to round up to 2, got %d", got)
	}
}

func TestOverlapsTreatsBackToBackAsConflict(t *testing.T) {
	first := mustParse(t, "2025-06-10", "2025-06-13")
	next := mustParse(t, "2025-06-13", "2025-06-15")
	if !first.Overlaps(next) || !next.Overlaps(first) {
		t.Fatal("expected back-to-back stays to overlap")
	}
	if first.OverlapsStrict(next) {
		t.Fatal("strict variant must allow same-day turnover")
	}
	later := mustParse(t, "2025-06-14", "2025-06-15")
	if first.Overlaps(later) {
		t.Fatal("expected disjoint stays not to overlap")
	}
}

func TestOverlapsMatchesInclusiveFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	randomRange := func() DateRange {
		start := rng.Intn(40)
		length := 1 + rng.Intn(10)
		return DateRange{
			CheckIn:  base.AddDate(0, 0, start),
			CheckOut: base.AddDate(0, 0, start+length),
		}
	}
	for i := 0; i < 5000; i++ {
		existing, requested := randomRange(), randomRange()
		want := (existing.CheckIn.Before(requested.CheckOut) || existing.CheckIn.Equal(requested.CheckOut)) &&
			(existing.CheckOut.After(requested.CheckIn) || existing.CheckOut.Equal(requested.CheckIn))
		if got := existing.Overlaps(requested); got != want {
			t.Fatalf("existing %s requested %s: got %v want %v", existing, requested, got, want)
		}
		if existing.Overlaps(requested) != requested.Overlaps(existing) {
			t.Fatalf("overlap must be symmetric for %s and %s", existing, requested)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 6, 10, 17, 45, 0, 0, time.FixedZone("x", 3*3600))
	got := StartOfDay(at)
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
