package saved

import (
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("x", -5*3600))
	e, err := NewEntry(" cust-1 ", "p-1", at)
	if err != nil {
		t.Fatal(err)
	}
	if e.CustomerID != "cust-1" || e.SavedAt.Location() != time.UTC {
		t.Fatalf("unexpected entry %+v", e)
	}
	if _, err := NewEntry("", "p-1", at); err != ErrCustomerRequired {
		t.Fatalf("expected ErrCustomerRequired, got %v", err)
	}
	if _, err := NewEntry("cust-1", " ", at); err != ErrPropertyRequired {
		t.Fatalf("expected ErrPropertyRequired, got %v", err)
	}
}
