package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordsRoundTrip(t *testing.T) {
	p := Passwords{Cost: bcrypt.MinCost}
	hash, err := p.Hash("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Compare(hash, "correct horse"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := p.Compare(hash, "wrong horse"); err != ErrMismatch {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
	if p.NeedsRehash(hash) {
		t.Fatal("hash made with the configured cost needs no rehash")
	}
	if !(Passwords{Cost: bcrypt.MinCost + 1}).NeedsRehash(hash) {
		t.Fatal("cost change should require rehash")
	}
}

func TestPasswordsRejectOverlong(t *testing.T) {
	if _, err := (Passwords{Cost: bcrypt.MinCost}).Hash(strings.Repeat("a", 73)); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	g := SessionTokens{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := g.NewToken()
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(tok, tokenPrefix) || len(tok) < 40 {
			t.Fatalf("unexpected token %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
