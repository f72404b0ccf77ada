package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/school-management-toolkit/registrar/config"
	"github.com/school-management-toolkit/registrar/internal/entity"
	"github.com/school-management-toolkit/registrar/internal/mocks"
	"github.com/school-management-toolkit/registrar/internal/usecase/auth"
	"github.com/school-management-toolkit/registrar/internal/usecase/security"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

const goodPassword = "Abcdef1!"

func testConfig() *config.Config {
	return &config.Config{
		Security: config.Security{
			MaxLoginAttempts:       3,
			LockoutDurationSeconds: 900,
			SessionTimeoutSeconds:  3600,
			MinPasswordLength:      8,
			CleanupIntervalSeconds: 300,
		},
	}
}

func initAuthTest(t *testing.T) (*auth.UseCase, *mocks.MockRepository, *security.Manager) {
	t.Helper()

	mockCtl := gomock.NewController(t)

	repo := mocks.NewMockRepository(mockCtl)

	log := logger.New("error")
	sec := security.New(testConfig(), log)

	return auth.New(repo, sec, nil, log), repo, sec
}

func aliceUser(t *testing.T, sec *security.Manager) *entity.User {
	t.Helper()

	hash, err := sec.HashPassword(goodPassword)
	require.NoError(t, err)

	return &entity.User{
		ID:           "0c7aebc3-6f80-4f27-9f57-3b8c807196e1",
		Username:     "alice",
		PasswordHash: hash,
		Role:         entity.RoleTeacher,
	}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	uc, repo, sec := initAuthTest(t)
	user := aliceUser(t, sec)

	// username is normalized before the repo sees it
	repo.EXPECT().
		GetByUsername(context.Background(), "alice").
		Return(user, nil)
	repo.EXPECT().
		UpdateLastLogin(context.Background(), "alice", gomock.Any()).
		Return(nil)

	res, err := uc.Login(context.Background(), "  Alice ", goodPassword)

	require.NoError(t, err)
	assert.Len(t, res.Token, 64)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "teacher", res.Role)

	session, err := uc.Session(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestLoginLastLoginWriteFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	uc, repo, sec := initAuthTest(t)
	user := aliceUser(t, sec)

	repo.EXPECT().
		GetByUsername(context.Background(), "alice").
		Return(user, nil)
	repo.EXPECT().
		UpdateLastLogin(context.Background(), "alice", gomock.Any()).
		Return(errors.New("disk full"))

	res, err := uc.Login(context.Background(), "alice", goodPassword)

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()

	uc, repo, sec := initAuthTest(t)

	repo.EXPECT().
		GetByUsername(context.Background(), "ghost").
		Return(nil, nil).
		Times(4)

	for i := 0; i < 4; i++ {
		_, err := uc.Login(context.Background(), "ghost", "whatever")

		var credErr security.InvalidCredentialsError

		require.ErrorAs(t, err, &credErr)
	}

	// probing a nonexistent account never creates lockout state
	assert.True(t, sec.IsLoginAllowed("ghost"))
}

func TestLoginWrongPasswordLocksAccount(t *testing.T) {
	t.Parallel()

	uc, repo, sec := initAuthTest(t)
	user := aliceUser(t, sec)

	repo.EXPECT().
		GetByUsername(context.Background(), "alice").
		Return(user, nil).
		Times(4)

	for i := 0; i < 3; i++ {
		_, err := uc.Login(context.Background(), "alice", "wrong-password")

		var credErr security.InvalidCredentialsError

		require.ErrorAs(t, err, &credErr)
	}

	_, err := uc.Login(context.Background(), "alice", goodPassword)

	var lockedErr security.AccountLockedError

	require.ErrorAs(t, err, &lockedErr)
	assert.Positive(t, lockedErr.Remaining)
}

func TestLoginRepositoryFailure(t *testing.T) {
	t.Parallel()

	uc, repo, _ := initAuthTest(t)

	repo.EXPECT().
		GetByUsername(context.Background(), "alice").
		Return(nil, errors.New("connection refused"))

	_, err := uc.Login(context.Background(), "alice", goodPassword)

	require.Error(t, err)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	t.Parallel()

	uc, repo, sec := initAuthTest(t)
	user := aliceUser(t, sec)

	repo.EXPECT().
		GetByUsername(context.Background(), "alice").
		Return(user, nil)
	repo.EXPECT().
		UpdateLastLogin(context.Background(), "alice", gomock.Any()).
		Return(nil)

	res, err := uc.Login(context.Background(), "alice", goodPassword)
	require.NoError(t, err)

	uc.Logout(res.Token)

	_, err = uc.Session(res.Token)

	var sessionErr security.SessionInvalidError

	require.ErrorAs(t, err, &sessionErr)

	// idempotent
	uc.Logout(res.Token)
}

func TestSessionUnknownToken(t *testing.T) {
	t.Parallel()

	uc, _, _ := initAuthTest(t)

	_, err := uc.Session("never-issued")

	var sessionErr security.SessionInvalidError

	require.ErrorAs(t, err, &sessionErr)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	uc, repo, sec := initAuthTest(t)
	user := aliceUser(t, sec)

	token, err := sec.CreateSession(*user)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		current  string
		next     string
		repoMock func()
		wantErr  interface{ Error() string }
	}{
		{
			name:    "success",
			token:   token,
			current: goodPassword,
			next:    "NewSecret9?",
			repoMock: func() {
				repo.EXPECT().
					GetByUsername(context.Background(), "alice").
					Return(user, nil)
				repo.EXPECT().
					UpdatePasswordHash(context.Background(), "alice", gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name:     "invalid session",
			token:    "never-issued",
			current:  goodPassword,
			next:     "NewSecret9?",
			repoMock: func() {},
			wantErr:  security.SessionInvalidError{},
		},
		{
			name:    "wrong current password",
			token:   token,
			current: "not-the-password",
			next:    "NewSecret9?",
			repoMock: func() {
				repo.EXPECT().
					GetByUsername(context.Background(), "alice").
					Return(user, nil)
			},
			wantErr: security.InvalidCredentialsError{},
		},
		{
			name:    "weak new password",
			token:   token,
			current: goodPassword,
			next:    "short",
			repoMock: func() {
				repo.EXPECT().
					GetByUsername(context.Background(), "alice").
					Return(user, nil)
			},
			wantErr: security.WeakPasswordError{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.repoMock()

			err := uc.ChangePassword(context.Background(), tc.token, tc.current, tc.next)

			if tc.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)

			switch tc.wantErr.(type) {
			case security.SessionInvalidError:
				var target security.SessionInvalidError

				assert.ErrorAs(t, err, &target)
			case security.InvalidCredentialsError:
				var target security.InvalidCredentialsError

				assert.ErrorAs(t, err, &target)
			case security.WeakPasswordError:
				var target security.WeakPasswordError

				assert.ErrorAs(t, err, &target)
			}
		})
	}
}

// recordingSecretStore captures SetKeyValue writes.
type recordingSecretStore struct {
	values map[string]string
}

func (s *recordingSecretStore) SetKeyValue(key, value string) error {
	if s.values == nil {
		s.values = map[string]string{}
	}

	s.values[key] = value

	return nil
}

func TestChangePasswordSyncsAdminSecret(t *testing.T) {
	t.Parallel()

	mockCtl := gomock.NewController(t)
	repo := mocks.NewMockRepository(mockCtl)

	log := logger.New("error")
	sec := security.New(testConfig(), log)
	store := &recordingSecretStore{}
	uc := auth.New(repo, sec, store, log)

	hash, err := sec.HashPassword(goodPassword)
	require.NoError(t, err)

	admin := &entity.User{
		ID:           "admin-id",
		Username:     "admin",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}

	token, err := sec.CreateSession(*admin)
	require.NoError(t, err)

	repo.EXPECT().
		GetByUsername(context.Background(), "admin").
		Return(admin, nil)
	repo.EXPECT().
		UpdatePasswordHash(context.Background(), "admin", gomock.Any()).
		Return(nil)

	require.NoError(t, uc.ChangePassword(context.Background(), token, goodPassword, "NewSecret9?"))
	assert.Equal(t, "NewSecret9?", store.values["admin_password"])
}

func TestChangePasswordDoesNotSyncNonAdmin(t *testing.T) {
	t.Parallel()

	mockCtl := gomock.NewController(t)
	repo := mocks.NewMockRepository(mockCtl)

	log := logger.New("error")
	sec := security.New(testConfig(), log)
	store := &recordingSecretStore{}
	uc := auth.New(repo, sec, store, log)

	user := aliceUser(t, sec)

	token, err := sec.CreateSession(*user)
	require.NoError(t, err)

	repo.EXPECT().
		GetByUsername(context.Background(), "alice").
		Return(user, nil)
	repo.EXPECT().
		UpdatePasswordHash(context.Background(), "alice", gomock.Any()).
		Return(nil)

	require.NoError(t, uc.ChangePassword(context.Background(), token, goodPassword, "NewSecret9?"))
	assert.Empty(t, store.values)
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()

	t.Run("empty store gets bootstrap admin", func(t *testing.T) {
		t.Parallel()

		uc, repo, _ := initAuthTest(t)

		repo.EXPECT().
			Count(context.Background()).
			Return(0, nil)
		repo.EXPECT().
			Insert(context.Background(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *entity.User) (string, error) {
				assert.Equal(t, "admin", u.Username)
				assert.Equal(t, entity.RoleAdmin, u.Role)
				assert.NotEmpty(t, u.PasswordHash)
				assert.NotEqual(t, "Ch@ngeMe1", u.PasswordHash)

				return u.ID, nil
			})

		require.NoError(t, uc.EnsureAdmin(context.Background(), "Admin", "Ch@ngeMe1"))
	})

	t.Run("populated store is untouched", func(t *testing.T) {
		t.Parallel()

		uc, repo, _ := initAuthTest(t)

		repo.EXPECT().
			Count(context.Background()).
			Return(5, nil)

		require.NoError(t, uc.EnsureAdmin(context.Background(), "admin", "Ch@ngeMe1"))
	})
}
