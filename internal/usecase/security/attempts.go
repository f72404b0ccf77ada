package security

import (
	"sync"
	"time"

	"github.com/school-management-toolkit/registrar/config"
)

// attemptRecord tracks consecutive login failures for one username. All
// fields are guarded by mu. removed marks a record that has been deleted from
// the map, so a goroutine that loaded it before the deletion does not
// resurrect it.
type attemptRecord struct {
	mu          sync.Mutex
	failedCount int
	lastAttempt time.Time
	locked      bool
	removed     bool
}

// AttemptTracker decides whether a login attempt for a username may proceed,
// based on recent consecutive failures. Records are created lazily on the
// first failure and removed on success or by the sweep.
//
// Locked records unlock lazily in IsLoginAllowed once the lockout duration
// has passed; the background sweep is memory reclamation only and is never
// needed for an account to become usable again.
type AttemptTracker struct {
	cfg     *config.Config
	records sync.Map // username -> *attemptRecord
	now     func() time.Time
}

// NewAttemptTracker -.
func NewAttemptTracker(cfg *config.Config) *AttemptTracker {
	return &AttemptTracker{
		cfg: cfg,
		now: time.Now,
	}
}

// IsLoginAllowed reports whether a login attempt for username may proceed.
func (t *AttemptTracker) IsLoginAllowed(username string) bool {
	v, ok := t.records.Load(username)
	if !ok {
		return true
	}

	r := v.(*attemptRecord)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.removed {
		return true
	}

	if r.locked {
		unlockAt := r.lastAttempt.Add(t.cfg.Security.LockoutDuration())
		if t.now().Before(unlockAt) {
			return false
		}

		// Lockout elapsed: unlock and reset together so the invariant
		// locked => failedCount >= max always holds.
		r.locked = false
		r.failedCount = 0

		return true
	}

	return r.failedCount < t.cfg.Security.MaxLoginAttempts
}

// RecordFailure registers a failed attempt for username, creating the record
// if needed, and locks the account once the configured maximum is reached.
// The increment is atomic per username: concurrent failures never lose
// updates. Returns the resulting count and lock state.
func (t *AttemptTracker) RecordFailure(username string) (count int, locked bool) {
	for {
		v, _ := t.records.LoadOrStore(username, &attemptRecord{})
		r := v.(*attemptRecord)

		r.mu.Lock()

		if r.removed {
			// Lost a race with RecordSuccess or the sweep; retry against a
			// fresh record.
			r.mu.Unlock()

			continue
		}

		r.failedCount++
		r.lastAttempt = t.now()

		if r.failedCount >= t.cfg.Security.MaxLoginAttempts {
			r.locked = true
		}

		count, locked = r.failedCount, r.locked

		r.mu.Unlock()

		return count, locked
	}
}

// RecordSuccess resets username to a clean state by removing its record.
func (t *AttemptTracker) RecordSuccess(username string) {
	v, ok := t.records.Load(username)
	if !ok {
		return
	}

	r := v.(*attemptRecord)

	r.mu.Lock()
	r.removed = true
	r.mu.Unlock()

	t.records.CompareAndDelete(username, v)
}

// RemainingLockout returns how long until username unlocks, or zero when the
// account is not locked.
func (t *AttemptTracker) RemainingLockout(username string) time.Duration {
	v, ok := t.records.Load(username)
	if !ok {
		return 0
	}

	r := v.(*attemptRecord)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.removed || !r.locked {
		return 0
	}

	remaining := r.lastAttempt.Add(t.cfg.Security.LockoutDuration()).Sub(t.now())
	if remaining < 0 {
		return 0
	}

	return remaining
}

// SweepExpired removes records whose last attempt is older than twice the
// lockout duration, regardless of lock state. The multiplier is a grace
// window so a still-locked record is never discarded early. Returns the
// number of records removed.
func (t *AttemptTracker) SweepExpired(now time.Time) int {
	grace := 2 * t.cfg.Security.LockoutDuration()
	removed := 0

	t.records.Range(func(key, value any) bool {
		r := value.(*attemptRecord)

		r.mu.Lock()
		stale := !r.removed && now.Sub(r.lastAttempt) >= grace
		if stale {
			r.removed = true
		}
		r.mu.Unlock()

		if stale && t.records.CompareAndDelete(key, value) {
			removed++
		}

		return true
	})

	attemptRecordsSwept.Add(float64(removed))

	return removed
}
