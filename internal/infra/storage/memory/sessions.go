package memory

import (
	"context"
	"sync"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

// SessionStore keeps bearer sessions for a single process. Lapsed sessions are
// returned as stored; the auth service reports and removes them.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[domainauth.Token]domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[domainauth.Token]domainauth.Session)}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	s.sessions[session.Token] = copySession(*session)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	out := copySession(session)
	return &out, nil
}

// Delete is a no-op for unknown tokens.
func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

func copySession(s domainauth.Session) domainauth.Session {
	s.Roles = append([]domainuser.Role(nil), s.Roles...)
	return s
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
