package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/school-management-toolkit/registrar/pkg/apperrors"
)

// WeakPasswordError reports every strength rule the password failed, so the
// UI can tell the user exactly what to fix.
type WeakPasswordError struct {
	App     apperrors.InternalError
	Reasons []string
}

// NewWeakPasswordError -.
func NewWeakPasswordError(reasons []string) WeakPasswordError {
	e := WeakPasswordError{App: apperrors.CreateAppError("PasswordPolicy"), Reasons: reasons}
	e.App.Message = e.FriendlyMessage()

	return e
}

func (e WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Reasons, "; ")
}

func (e WeakPasswordError) FriendlyMessage() string {
	return "password " + strings.Join(e.Reasons, "; ")
}

// EmptyPasswordError -.
type EmptyPasswordError struct {
	App apperrors.InternalError
}

// NewEmptyPasswordError -.
func NewEmptyPasswordError() EmptyPasswordError {
	e := EmptyPasswordError{App: apperrors.CreateAppError("PasswordPolicy")}
	e.App.Message = e.FriendlyMessage()

	return e
}

func (e EmptyPasswordError) Error() string {
	return "password must not be blank"
}

func (e EmptyPasswordError) FriendlyMessage() string {
	return "password must not be blank"
}

// AccountLockedError tells the caller when the account unlocks, not just that
// it is locked.
type AccountLockedError struct {
	App       apperrors.InternalError
	UnlockAt  time.Time
	Remaining time.Duration
}

// NewAccountLockedError -.
func NewAccountLockedError(unlockAt time.Time, remaining time.Duration) AccountLockedError {
	e := AccountLockedError{
		App:       apperrors.CreateAppError("AttemptTracker"),
		UnlockAt:  unlockAt,
		Remaining: remaining,
	}
	e.App.Message = e.FriendlyMessage()

	return e
}

func (e AccountLockedError) Error() string {
	return fmt.Sprintf("account locked; unlocks in %s", e.Remaining.Round(time.Second))
}

func (e AccountLockedError) FriendlyMessage() string {
	return fmt.Sprintf("account is temporarily locked; try again in %s", e.Remaining.Round(time.Second))
}

// InvalidCredentialsError is returned identically for an unknown username and
// a wrong password, so responses cannot be used to enumerate accounts.
type InvalidCredentialsError struct {
	App apperrors.InternalError
}

// NewInvalidCredentialsError -.
func NewInvalidCredentialsError() InvalidCredentialsError {
	e := InvalidCredentialsError{App: apperrors.CreateAppError("SecurityManager")}
	e.App.Message = e.FriendlyMessage()

	return e
}

func (e InvalidCredentialsError) Error() string {
	return "invalid username or password"
}

func (e InvalidCredentialsError) FriendlyMessage() string {
	return "invalid username or password"
}

// SessionInvalidError covers both a token that was never issued and one that
// has expired; callers re-authenticate either way.
type SessionInvalidError struct {
	App apperrors.InternalError
}

// NewSessionInvalidError -.
func NewSessionInvalidError() SessionInvalidError {
	e := SessionInvalidError{App: apperrors.CreateAppError("SessionStore")}
	e.App.Message = e.FriendlyMessage()

	return e
}

func (e SessionInvalidError) Error() string {
	return "session is invalid or expired"
}

func (e SessionInvalidError) FriendlyMessage() string {
	return "session is invalid or expired; sign in again"
}
