package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

const (
	sessionPrefix = "stayhub:session:"
	userPrefix    = "stayhub:session:user:"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects and pings so a wrong address fails at startup.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// SessionStore keeps bearer sessions in Redis. Each session key expires with
// the session; a per-user set indexes tokens for DeleteByUser.
type SessionStore struct {
	client goredis.Cmdable
	now    func() time.Time
}

func NewSessionStore(client goredis.Cmdable) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionRecord struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	ttl := session.Remaining(s.now())
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	userKey := userKey(session.UserID)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.Token), data, ttl)
		pipe.SAdd(ctx, userKey, string(session.Token))
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis: get session: %w", err)
	}
	return decodeSession(data)
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	session, err := s.Get(ctx, token)
	if errors.Is(err, domainauth.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(token))
		pipe.SRem(ctx, userKey(session.UserID), string(token))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	tokens, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis: list sessions: %w", err)
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKey(domainauth.Token(t)))
	}
	keys = append(keys, userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: delete sessions: %w", err)
	}
	return nil
}

func sessionKey(token domainauth.Token) string { return sessionPrefix + string(token) }
func userKey(id domainuser.ID) string          { return userPrefix + string(id) }

func encodeSession(s *domainauth.Session) ([]byte, error) {
	roles := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		roles = append(roles, string(r))
	}
	return json.Marshal(sessionRecord{
		Token:     string(s.Token),
		UserID:    string(s.UserID),
		Roles:     roles,
		CreatedAt: s.CreatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	})
}

func decodeSession(data []byte) (*domainauth.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	roles := make([]domainuser.Role, 0, len(rec.Roles))
	for _, r := range rec.Roles {
		roles = append(roles, domainuser.Role(r))
	}
	return &domainauth.Session{
		Token:     domainauth.Token(rec.Token),
		UserID:    domainuser.ID(rec.UserID),
		Roles:     roles,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
