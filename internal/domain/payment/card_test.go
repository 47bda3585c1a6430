package payment

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validCard() Card {
	return Card{Number: "4539 1488 0343 6467", Holder: "Ana Silva", Expiry: "12/27", CVV: "123"}
}

func TestLuhn(t *testing.T) {
	if !Luhn("4539148803436467") {
		t.Fatal("expected 4539148803436467 to pass")
	}
	if Luhn("4539148803436468") {
		t.Fatal("expected 4539148803436468 to fail")
	}
}

func TestCardValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Card)
		want   error
	}{
		{"valid", func(*Card) {}, nil},
		{"bad checksum", func(c *Card) { c.Number = "4539148803436468" }, ErrCardNumber},
		{"fifteen digits", func(c *Card) { c.Number = "453914880343646" }, ErrCardNumber},
		{"letters", func(c *Card) { c.Number = "4539x48803436467" }, ErrCardNumber},
		{"expired last month", func(c *Card) { c.Expiry = "05/25" }, ErrCardExpiry},
		{"current month still valid", func(c *Card) { c.Expiry = "06/25" }, nil},
		{"bad month", func(c *Card) { c.Expiry = "13/26" }, ErrCardExpiry},
		{"bad format", func(c *Card) { c.Expiry = "2026-01" }, ErrCardExpiry},
		{"short cvv", func(c *Card) { c.CVV = "12" }, ErrCardCVV},
		{"four digit cvv", func(c *Card) { c.CVV = "1234" }, nil},
		{"missing holder", func(c *Card) { c.Holder = " " }, ErrCardHolder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := validCard()
			tc.mutate(&card)
			if err := card.Validate(now); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod(""); err != nil || m != MethodCard {
		t.Fatalf("expected card default, got %v %v", m, err)
	}
	if _, err := ParseMethod("bitcoin"); err != ErrUnsupportedMethod {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if got := validCard().Last4(); got != "6467" {
		t.Fatalf("unexpected last4 %q", got)
	}
}
