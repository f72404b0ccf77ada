package auth

import (
	"context"
	"time"

	"github.com/school-management-toolkit/registrar/internal/entity"
)

// Repository is the persistence collaborator for principals. A nil user with
// a nil error means the username does not exist.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Insert(ctx context.Context, user *entity.User) (string, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) error
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

// SecretStore is the optional secret-store collaborator. When present, the
// bootstrap admin password kept there is re-synced after the admin rotates
// it, so a later redeploy does not resurrect the old credential.
type SecretStore interface {
	SetKeyValue(key, value string) error
}
