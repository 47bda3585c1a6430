package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"stayhub/internal/app/apperr"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrNotConfigured      = errors.New("auth: service missing users, sessions, passwords or tokens")
)

const (
	minPasswordRunes  = 8
	defaultSessionTTL = 24 * time.Hour
)

var authKinds = map[error]apperr.Kind{
	ErrInvalidCredentials:          apperr.KindAuthRequired,
	domainauth.ErrSessionNotFound:  apperr.KindAuthRequired,
	domainauth.ErrTokenRequired:    apperr.KindAuthRequired,
	ErrPasswordTooShort:            apperr.KindValidation,
	domainuser.ErrEmailRequired:    apperr.KindValidation,
	domainuser.ErrNameRequired:     apperr.KindValidation,
	domainuser.ErrEmailAlreadyUsed: apperr.KindValidation,
	domainuser.ErrInvalidRole:      apperr.KindValidation,
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// Service signs customers up and in, resolves bearer tokens and tells
// subscribers about every session change.
type Service struct {
	Users      domainuser.Repository
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time

	mu          sync.RWMutex
	subscribers []domainauth.Subscriber
}

type RegisterParams struct {
	Email      string
	FirstName  string
	LastName   string
	Password   string
	WantToHost bool
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *domainuser.User
	Token     string
	ExpiresAt time.Time
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

// Subscribe registers fn for session changes. Subscribers are called
// synchronously in registration order.
func (s *Service) Subscribe(fn domainauth.Subscriber) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Register creates the account with its profile seed and signs it in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, apperr.Backend(err)
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, classify(domainuser.ErrEmailRequired)
	}
	if strings.TrimSpace(params.FirstName) == "" {
		return nil, classify(domainuser.ErrNameRequired)
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, classify(err)
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, classify(domainuser.ErrEmailAlreadyUsed)
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, apperr.Backend(err)
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	roles := []domainuser.Role{domainuser.RoleGuest}
	if params.WantToHost {
		roles = append(roles, domainuser.RoleHost)
	}
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, classify(err)
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, classify(err)
	}
	return s.startSession(ctx, user, domainauth.ChangeSignedUp)
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, apperr.Backend(err)
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, classify(ErrInvalidCredentials)
	}
	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, classify(ErrInvalidCredentials)
		}
		return nil, apperr.Backend(err)
	}
	if err := s.Passwords.Compare(user.PasswordHash, params.Password); err != nil {
		return nil, classify(ErrInvalidCredentials)
	}
	return s.startSession(ctx, user, domainauth.ChangeSignedIn)
}

// Logout invalidates the session explicitly. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return apperr.Backend(err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil
		}
		return apperr.Backend(err)
	}
	if err := s.Sessions.Delete(ctx, session.Token); err != nil {
		return apperr.Backend(err)
	}
	s.log().Info("session terminated", "user_id", session.UserID)
	s.publish(domainauth.ChangeSignedOut, session.UserID, session.Token)
	return nil
}

// ResolveToken is the current-user lookup behind every authenticated request.
func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, apperr.Backend(err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, classify(domainauth.ErrTokenRequired)
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, classify(err)
	}
	if session.Expired(s.now()) {
		_ = s.Sessions.Delete(ctx, session.Token)
		s.publish(domainauth.ChangeExpired, session.UserID, session.Token)
		return nil, classify(domainauth.ErrSessionNotFound)
	}
	user, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, classify(domainauth.ErrSessionNotFound)
		}
		return nil, apperr.Backend(err)
	}
	return &ResolveResult{User: user, Session: session}, nil
}

// startSession stores a fresh token for user and announces it as kind.
func (s *Service) startSession(ctx context.Context, user *domainuser.User, kind domainauth.ChangeKind) (*AuthResult, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return nil, apperr.Backend(err)
	}
	session, err := domainauth.Issue(domainauth.Token(token), user, s.sessionTTL(), s.now())
	if err != nil {
		return nil, apperr.Backend(err)
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, apperr.Backend(err)
	}
	s.log().Info("session started", "user_id", user.ID, "change", kind)
	s.publish(kind, user.ID, session.Token)
	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

func (s *Service) publish(kind domainauth.ChangeKind, userID domainuser.ID, token domainauth.Token) {
	s.mu.RLock()
	subs := append([]domainauth.Subscriber(nil), s.subscribers...)
	s.mu.RUnlock()
	change := domainauth.Change{Kind: kind, UserID: userID, Token: token, At: s.now()}
	for _, fn := range subs {
		fn(change)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return defaultSessionTTL
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	if s.Users == nil || s.Sessions == nil || s.Passwords == nil || s.Tokens == nil {
		return ErrNotConfigured
	}
	return nil
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func classify(err error) error {
	return apperr.Map(err, authKinds)
}
