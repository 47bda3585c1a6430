package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"stayhub/internal/domain/user"
)

var (
	ErrTokenRequired   = errors.New("auth: token is required")
	ErrUserRequired    = errors.New("auth: user is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
)

// Token is the opaque bearer value handed to the caller.
type Token string

// Session binds a token to an account. Roles are a snapshot taken at sign-in.
type Session struct {
	Token     Token
	UserID    user.ID
	Roles     []user.Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Issue opens a session for holder that lives for ttl from now.
func Issue(token Token, holder *user.User, ttl time.Duration, now time.Time) (*Session, error) {
	trimmed := Token(strings.TrimSpace(string(token)))
	switch {
	case trimmed == "":
		return nil, ErrTokenRequired
	case holder == nil || strings.TrimSpace(string(holder.ID)) == "":
		return nil, ErrUserRequired
	case ttl <= 0:
		return nil, ErrTTLInvalid
	}
	if now.IsZero() {
		now = time.Now()
	}
	start := now.UTC()
	return &Session{
		Token:     trimmed,
		UserID:    holder.ID,
		Roles:     slices.Clone(holder.Roles),
		CreatedAt: start,
		ExpiresAt: start.Add(ttl),
	}, nil
}

// Remaining is the lifetime left at the given instant, never negative.
func (s *Session) Remaining(at time.Time) time.Duration {
	return max(s.ExpiresAt.Sub(at.UTC()), 0)
}

func (s *Session) Expired(at time.Time) bool {
	return s.Remaining(orNow(at)) == 0
}

func orNow(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now()
	}
	return at
}

// ChangeKind names a session lifecycle transition.
type ChangeKind string

const (
	ChangeSignedIn  ChangeKind = "signed_in"
	ChangeSignedUp  ChangeKind = "signed_up"
	ChangeSignedOut ChangeKind = "signed_out"
	ChangeExpired   ChangeKind = "expired"
)

// Change is delivered to session subscribers.
type Change struct {
	Kind   ChangeKind
	UserID user.ID
	Token  Token
	At     time.Time
}

// Subscriber observes session changes; it must not block.
type Subscriber func(Change)

// SessionStore keeps live sessions. Delete of an unknown token is not an error.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token Token) (*Session, error)
	Delete(ctx context.Context, token Token) error
	DeleteByUser(ctx context.Context, userID user.ID) error
}
