package auth

import (
	"sync"
	"time"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

// Session is the server-side state behind one access token. Secret is the
// raw password captured at login; file encryption keys are derived from it
// per request, so it never touches the database.
type Session struct {
	AccountID int64
	Secret    []byte
	ExpiresAt time.Time
}

// SessionStore maps token IDs (jti) to live sessions. Everything is held in
// memory; a restart logs everyone out, same as the original webapp.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Put registers a session under tokenID. The secret is copied so the caller
// may wipe its own buffer.
func (s *SessionStore) Put(tokenID string, accountID int64, secret []byte, validity time.Duration) {
	cp := make([]byte, len(secret))
	copy(cp, secret)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenID] = Session{
		AccountID: accountID,
		Secret:    cp,
		ExpiresAt: time.Now().Add(validity),
	}
}

// Get returns the session for tokenID, or common.ErrSessionExpired when the
// session is absent or past its expiry. Expired entries are removed lazily.
// The returned secret is a copy: the store's own buffer is wiped by Delete
// and UpdateSecret, which must not reach a caller still encrypting with it.
func (s *SessionStore) Get(tokenID string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[tokenID]
	if ok {
		cp := make([]byte, len(session.Secret))
		copy(cp, session.Secret)
		session.Secret = cp
	}
	s.mu.RUnlock()

	if !ok {
		return Session{}, common.ErrSessionExpired
	}
	if time.Now().After(session.ExpiresAt) {
		s.Delete(tokenID)
		return Session{}, common.ErrSessionExpired
	}
	return session, nil
}

// Delete drops a session and wipes its secret.
func (s *SessionStore) Delete(tokenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[tokenID]; ok {
		common.WipeByteArray(session.Secret)
		delete(s.sessions, tokenID)
	}
}

// UpdateSecret replaces the stored secret in every session belonging to
// accountID. Called after a password change so open sessions keep working.
func (s *SessionStore) UpdateSecret(accountID int64, secret []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.AccountID != accountID {
			continue
		}
		common.WipeByteArray(session.Secret)
		cp := make([]byte, len(secret))
		copy(cp, secret)
		session.Secret = cp
		s.sessions[id] = session
	}
}

// DeleteByAccount drops all sessions for accountID (account deletion).
func (s *SessionStore) DeleteByAccount(accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.AccountID == accountID {
			common.WipeByteArray(session.Secret)
			delete(s.sessions, id)
		}
	}
}
