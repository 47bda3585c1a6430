package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

func TestSessionEncodingKeepsRolesAndExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	holder := &domainuser.User{ID: "u-1", Roles: []domainuser.Role{domainuser.RoleGuest, domainuser.RoleHost}}
	in, err := domainauth.Issue("sh_abc", holder, time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}
	data, err := encodeSession(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := decodeSession(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.Token != in.Token || out.UserID != in.UserID || len(out.Roles) != 2 || out.Roles[1] != domainuser.RoleHost {
		t.Fatalf("unexpected session %+v", out)
	}
	if !out.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %s, got %s", now.Add(time.Hour), out.ExpiresAt)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decodeSession([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestKeysAreNamespaced(t *testing.T) {
	if got := sessionKey("sh_1"); got != "stayhub:session:sh_1" {
		t.Fatalf("unexpected session key %q", got)
	}
	if got := userKey("u-1"); got != "stayhub:session:user:u-1" {
		t.Fatalf("unexpected user key %q", got)
	}
}

func TestSaveRejectsExpiredSession(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	store := NewSessionStore(client)
	store.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	expired := &domainauth.Session{Token: "sh_old", UserID: "u-1", ExpiresAt: time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := store.Save(context.Background(), expired); !errors.Is(err, domainauth.ErrTTLInvalid) {
		t.Fatalf("expected ErrTTLInvalid before any network call, got %v", err)
	}
	if err := store.Save(context.Background(), nil); !errors.Is(err, domainauth.ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}

func TestUnreachableServerSurfacesError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	store := NewSessionStore(client)
	_, err := store.Get(context.Background(), "sh_x")
	if err == nil || errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}
