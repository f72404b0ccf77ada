package security

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/school-management-toolkit/registrar/config"
	"github.com/school-management-toolkit/registrar/internal/entity"
)

// tokenBytes gives 256 bits of entropy per session token (64 hex chars).
const tokenBytes = 32

// Session is an authenticated session. Callers always receive a copy; the
// store owns the only mutable record.
type Session struct {
	Token        string
	User         entity.User
	CreatedAt    time.Time
	LastActivity time.Time
}

type sessionRecord struct {
	mu      sync.Mutex
	session Session
	removed bool
}

// SessionStore maps opaque tokens to sessions with sliding expiration: every
// successful validation restarts the idle countdown. Expiry is enforced on
// read; the background sweep only reclaims memory.
type SessionStore struct {
	cfg      *config.Config
	sessions sync.Map // token -> *sessionRecord
	now      func() time.Time
}

// NewSessionStore -.
func NewSessionStore(cfg *config.Config) *SessionStore {
	return &SessionStore{
		cfg: cfg,
		now: time.Now,
	}
}

// Create mints a session for user and returns its token. Token collisions
// are statistically negligible at 256 bits, but LoadOrStore keeps the insert
// defensive: an existing record is never overwritten.
func (s *SessionStore) Create(user entity.User) (string, error) {
	for {
		buf := make([]byte, tokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		token := hex.EncodeToString(buf)

		now := s.now()
		rec := &sessionRecord{
			session: Session{
				Token:        token,
				User:         user,
				CreatedAt:    now,
				LastActivity: now,
			},
		}

		if _, loaded := s.sessions.LoadOrStore(token, rec); !loaded {
			sessionsCreated.Inc()

			return token, nil
		}
	}
}

// Validate looks up token. An idle-expired session is removed and reported
// invalid even though it was still physically present. A live session has its
// activity timestamp refreshed and is returned by value.
func (s *SessionStore) Validate(token string) (Session, bool) {
	v, ok := s.sessions.Load(token)
	if !ok {
		return Session{}, false
	}

	rec := v.(*sessionRecord)

	rec.mu.Lock()

	if rec.removed {
		rec.mu.Unlock()

		return Session{}, false
	}

	now := s.now()
	if now.Sub(rec.session.LastActivity) >= s.cfg.Security.SessionTimeout() {
		rec.removed = true
		rec.mu.Unlock()

		s.sessions.CompareAndDelete(token, v)
		sessionsExpired.Inc()

		return Session{}, false
	}

	rec.session.LastActivity = now
	out := rec.session

	rec.mu.Unlock()

	return out, true
}

// Close removes token's session if present. Idempotent: closing an unknown
// or already-closed token is a no-op.
func (s *SessionStore) Close(token string) bool {
	v, ok := s.sessions.Load(token)
	if !ok {
		return false
	}

	rec := v.(*sessionRecord)

	rec.mu.Lock()
	closed := !rec.removed
	rec.removed = true
	rec.mu.Unlock()

	s.sessions.CompareAndDelete(token, v)

	return closed
}

// SweepExpired removes every idle-expired session. Validate is authoritative
// without it; this pass exists so abandoned sessions do not accumulate.
// Returns the number of sessions removed.
func (s *SessionStore) SweepExpired(now time.Time) int {
	timeout := s.cfg.Security.SessionTimeout()
	removed := 0

	s.sessions.Range(func(key, value any) bool {
		rec := value.(*sessionRecord)

		rec.mu.Lock()
		stale := !rec.removed && now.Sub(rec.session.LastActivity) >= timeout
		if stale {
			rec.removed = true
		}
		rec.mu.Unlock()

		if stale && s.sessions.CompareAndDelete(key, value) {
			removed++
		}

		return true
	})

	if removed > 0 {
		sessionsExpired.Add(float64(removed))
	}

	return removed
}
