// Package security implements the in-process authentication security core:
// password policy, brute-force lockout tracking, and session lifecycle.
//
// All state lives in memory and is lost on restart, which deliberately
// fails open: brute-force counters and sessions reset with the process.
// Hash and Verify are CPU-expensive on purpose; callers keep them off
// latency-critical goroutines.
package security

import (
	"strings"
	"time"

	"github.com/school-management-toolkit/registrar/config"
	"github.com/school-management-toolkit/registrar/internal/entity"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

// Manager is the facade collaborators go through; the maps behind it are
// never reachable from outside this package. Safe for concurrent use from
// any number of goroutines.
type Manager struct {
	cfg      *config.Config
	log      logger.Interface
	policy   *Policy
	attempts *AttemptTracker
	sessions *SessionStore
}

// New constructs a Manager. The config pointer is retained and re-read on
// every call, so runtime configuration changes apply immediately.
func New(cfg *config.Config, log logger.Interface) *Manager {
	return &Manager{
		cfg:      cfg,
		log:      log,
		policy:   NewPolicy(cfg),
		attempts: NewAttemptTracker(cfg),
		sessions: NewSessionStore(cfg),
	}
}

// NewCleaner returns the maintenance task for this manager's stores. The
// caller owns its Start/Stop lifecycle.
func (m *Manager) NewCleaner() *Cleaner {
	return NewCleaner(m.cfg, m.log, m.sessions, m.attempts)
}

// NormalizeUsername trims surrounding whitespace and lower-cases, so
// " Alice " and "alice" share one attempt record.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// tokenPrefix returns the loggable prefix of a session token. Full tokens
// never appear in logs.
func tokenPrefix(token string) string {
	const n = 8
	if len(token) <= n {
		return token
	}

	return token[:n]
}

// ValidatePasswordStrength -.
func (m *Manager) ValidatePasswordStrength(password string) error {
	return m.policy.ValidateStrength(password)
}

// HashPassword -.
func (m *Manager) HashPassword(password string) (string, error) {
	return m.policy.Hash(password)
}

// VerifyPassword -.
func (m *Manager) VerifyPassword(password, digest string) bool {
	return m.policy.Verify(password, digest)
}

// IsLoginAllowed reports whether a login attempt for username may proceed.
func (m *Manager) IsLoginAllowed(username string) bool {
	return m.attempts.IsLoginAllowed(NormalizeUsername(username))
}

// RecordFailedLogin registers a failed attempt and logs the lockout
// transition when the failure threshold is crossed.
func (m *Manager) RecordFailedLogin(username string) {
	username = NormalizeUsername(username)

	count, locked := m.attempts.RecordFailure(username)
	loginFailures.Inc()

	maxAttempts := m.cfg.Security.MaxLoginAttempts

	switch {
	case locked && count == maxAttempts:
		accountLockouts.Inc()
		m.log.Warn("security - account locked after %d failed attempts: %s", count, username)
	case locked:
		m.log.Warn("security - failed login on locked account: %s", username)
	default:
		m.log.Info("security - failed login %d/%d: %s", count, maxAttempts, username)
	}
}

// RecordSuccessfulLogin resets username's attempt state to clean.
func (m *Manager) RecordSuccessfulLogin(username string) {
	username = NormalizeUsername(username)

	m.attempts.RecordSuccess(username)
	m.log.Info("security - successful login: %s", username)
}

// RemainingLockout returns how long until username's lockout expires, or
// zero when the account is not locked.
func (m *Manager) RemainingLockout(username string) time.Duration {
	return m.attempts.RemainingLockout(NormalizeUsername(username))
}

// CreateSession mints a session for an authenticated user and returns the
// opaque token. The stored copy carries no password hash.
func (m *Manager) CreateSession(user entity.User) (string, error) {
	user.PasswordHash = ""

	token, err := m.sessions.Create(user)
	if err != nil {
		return "", err
	}

	m.log.Info("security - session created for %s: %s...", user.Username, tokenPrefix(token))

	return token, nil
}

// ValidateSession returns the session for token, refreshing its sliding
// expiry, or reports it invalid.
func (m *Manager) ValidateSession(token string) (Session, bool) {
	session, ok := m.sessions.Validate(token)
	if !ok {
		m.log.Debug("security - session rejected: %s...", tokenPrefix(token))

		return Session{}, false
	}

	return session, true
}

// CloseSession revokes token's session. Idempotent.
func (m *Manager) CloseSession(token string) {
	if m.sessions.Close(token) {
		m.log.Info("security - session closed: %s...", tokenPrefix(token))
	}
}
