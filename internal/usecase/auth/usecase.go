// Package auth orchestrates the login flow: gate the attempt, verify the
// password, record the outcome, and mint or revoke sessions. All security
// decisions live in the security package; this usecase only sequences them
// against the user store.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/school-management-toolkit/registrar/internal/entity"
	"github.com/school-management-toolkit/registrar/internal/entity/dto/v1"
	"github.com/school-management-toolkit/registrar/internal/usecase/security"
	"github.com/school-management-toolkit/registrar/internal/usecase/sqldb"
	"github.com/school-management-toolkit/registrar/pkg/apperrors"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

var (
	ErrAuthUseCase = apperrors.CreateAppError("AuthUseCase")
	ErrDatabase    = sqldb.DatabaseError{App: ErrAuthUseCase}
	ErrNotFound    = sqldb.NotFoundError{App: ErrAuthUseCase}
)

// UseCase -.
type UseCase struct {
	repo     Repository
	security *security.Manager
	secrets  SecretStore
	log      logger.Interface
}

// New constructs the usecase. secrets may be nil when no secret store is
// configured.
func New(repo Repository, sec *security.Manager, secrets SecretStore, log logger.Interface) *UseCase {
	return &UseCase{
		repo:     repo,
		security: sec,
		secrets:  secrets,
		log:      log,
	}
}

// Login runs the full authentication flow and returns a session token on
// success.
//
// Unknown usernames are rejected before the attempt tracker is consulted, so
// probing a nonexistent account never creates lockout state. The response is
// the same InvalidCredentials either way; only the internal bookkeeping
// differs.
func (uc *UseCase) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	username = security.NormalizeUsername(username)

	user, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return dto.LoginResponse{}, ErrDatabase.Wrap("Login", "uc.repo.GetByUsername", err)
	}

	if user == nil {
		return dto.LoginResponse{}, security.NewInvalidCredentialsError()
	}

	if !uc.security.IsLoginAllowed(username) {
		remaining := uc.security.RemainingLockout(username)

		return dto.LoginResponse{}, security.NewAccountLockedError(time.Now().Add(remaining), remaining)
	}

	if !uc.security.VerifyPassword(password, user.PasswordHash) {
		uc.security.RecordFailedLogin(username)

		return dto.LoginResponse{}, security.NewInvalidCredentialsError()
	}

	uc.security.RecordSuccessfulLogin(username)

	// fire-and-forget: a failed timestamp write never fails the login
	if err := uc.repo.UpdateLastLogin(ctx, username, time.Now()); err != nil {
		uc.log.Error(err, "auth - Login - uc.repo.UpdateLastLogin")
	}

	token, err := uc.security.CreateSession(*user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// Logout revokes the session for token. Unknown tokens are a no-op.
func (uc *UseCase) Logout(token string) {
	uc.security.CloseSession(token)
}

// Session validates token and returns the caller-facing view of its session.
func (uc *UseCase) Session(token string) (dto.Session, error) {
	session, ok := uc.security.ValidateSession(token)
	if !ok {
		return dto.Session{}, security.NewSessionInvalidError()
	}

	return dto.Session{
		Username:     session.User.Username,
		Role:         string(session.User.Role),
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
	}, nil
}

// ChangePassword verifies the caller's session and current password, checks
// the new password against the strength policy, and persists the new hash.
func (uc *UseCase) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	session, ok := uc.security.ValidateSession(token)
	if !ok {
		return security.NewSessionInvalidError()
	}

	user, err := uc.repo.GetByUsername(ctx, session.User.Username)
	if err != nil {
		return ErrDatabase.Wrap("ChangePassword", "uc.repo.GetByUsername", err)
	}

	if user == nil {
		return ErrNotFound.Wrap("ChangePassword", "uc.repo.GetByUsername", nil)
	}

	if !uc.security.VerifyPassword(currentPassword, user.PasswordHash) {
		return security.NewInvalidCredentialsError()
	}

	if err := uc.security.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := uc.security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := uc.repo.UpdatePasswordHash(ctx, user.Username, hash); err != nil {
		return ErrDatabase.Wrap("ChangePassword", "uc.repo.UpdatePasswordHash", err)
	}

	// keep the secret store's copy of the admin credential current; a
	// failed sync never fails the rotation
	if user.Role == entity.RoleAdmin && uc.secrets != nil {
		if err := uc.secrets.SetKeyValue("admin_password", newPassword); err != nil {
			uc.log.Error(err, "auth - ChangePassword - uc.secrets.SetKeyValue")
		}
	}

	uc.log.Info("auth - password changed for %s", user.Username)

	return nil
}

// EnsureAdmin creates the bootstrap admin account on an empty user store, so
// a fresh install is reachable. Existing stores are left untouched.
func (uc *UseCase) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return ErrDatabase.Wrap("EnsureAdmin", "uc.repo.Count", err)
	}

	if count > 0 {
		return nil
	}

	hash, err := uc.security.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.User{
		ID:           uuid.New().String(),
		Username:     security.NormalizeUsername(username),
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}

	if _, err := uc.repo.Insert(ctx, admin); err != nil {
		return ErrDatabase.Wrap("EnsureAdmin", "uc.repo.Insert", err)
	}

	uc.log.Info("auth - bootstrap admin account created: %s", admin.Username)

	return nil
}
