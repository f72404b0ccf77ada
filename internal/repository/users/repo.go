// Package users implements the principal store over sqlite.
package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/school-management-toolkit/registrar/internal/entity"
	"github.com/school-management-toolkit/registrar/internal/usecase/sqldb"
	"github.com/school-management-toolkit/registrar/pkg/apperrors"
	"github.com/school-management-toolkit/registrar/pkg/db"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

var (
	ErrUsersRepo = apperrors.CreateAppError("UsersRepo")
	ErrDatabase  = sqldb.DatabaseError{App: ErrUsersRepo}
	ErrNotUnique = sqldb.NotUniqueError{App: ErrUsersRepo}
)

// Repo -.
type Repo struct {
	*db.SQL
	log logger.Interface
}

// New -.
func New(database *db.SQL, log logger.Interface) *Repo {
	return &Repo{database, log}
}

// GetByUsername returns nil, nil when the username does not exist.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	sqlQuery, args, err := r.Builder.
		Select("id", "username", "password_hash", "role", "last_login", "created_at").
		From("users").
		Where("username = ?", username).
		ToSql()
	if err != nil {
		return nil, ErrDatabase.Wrap("GetByUsername", "r.Builder", err)
	}

	row := r.DB.QueryRowContext(ctx, sqlQuery, args...)

	user := entity.User{}

	var lastLogin sql.NullTime

	err = row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &lastLogin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, ErrDatabase.Wrap("GetByUsername", "row.Scan", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return &user, nil
}

// Insert -.
func (r *Repo) Insert(ctx context.Context, user *entity.User) (string, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	sqlQuery, args, err := r.Builder.
		Insert("users").
		Columns("id", "username", "password_hash", "role", "created_at").
		Values(user.ID, user.Username, user.PasswordHash, user.Role, createdAt).
		ToSql()
	if err != nil {
		return "", ErrDatabase.Wrap("Insert", "r.Builder", err)
	}

	_, err = r.DB.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return "", ErrNotUnique.Wrap("Insert", "r.DB.ExecContext", err)
		}

		return "", ErrDatabase.Wrap("Insert", "r.DB.ExecContext", err)
	}

	return user.ID, nil
}

// UpdatePasswordHash -.
func (r *Repo) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	sqlQuery, args, err := r.Builder.
		Update("users").
		Set("password_hash", hash).
		Where("username = ?", username).
		ToSql()
	if err != nil {
		return ErrDatabase.Wrap("UpdatePasswordHash", "r.Builder", err)
	}

	if _, err = r.DB.ExecContext(ctx, sqlQuery, args...); err != nil {
		return ErrDatabase.Wrap("UpdatePasswordHash", "r.DB.ExecContext", err)
	}

	return nil
}

// UpdateLastLogin -.
func (r *Repo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	sqlQuery, args, err := r.Builder.
		Update("users").
		Set("last_login", at).
		Where("username = ?", username).
		ToSql()
	if err != nil {
		return ErrDatabase.Wrap("UpdateLastLogin", "r.Builder", err)
	}

	if _, err = r.DB.ExecContext(ctx, sqlQuery, args...); err != nil {
		return ErrDatabase.Wrap("UpdateLastLogin", "r.DB.ExecContext", err)
	}

	return nil
}

// Count -.
func (r *Repo) Count(ctx context.Context) (int, error) {
	sqlQuery, _, err := r.Builder.
		Select("COUNT(*)").
		From("users").
		ToSql()
	if err != nil {
		return 0, ErrDatabase.Wrap("Count", "r.Builder", err)
	}

	var count int

	if err := r.DB.QueryRowContext(ctx, sqlQuery).Scan(&count); err != nil {
		return 0, ErrDatabase.Wrap("Count", "row.Scan", err)
	}

	return count, nil
}
