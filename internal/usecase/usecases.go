// Package usecase wires the repositories into the usecases the controllers
// consume.
package usecase

import (
	"github.com/school-management-toolkit/registrar/internal/repository/users"
	"github.com/school-management-toolkit/registrar/internal/usecase/auth"
	"github.com/school-management-toolkit/registrar/internal/usecase/security"
	"github.com/school-management-toolkit/registrar/pkg/db"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

// Usecases -.
type Usecases struct {
	Auth *auth.UseCase
}

// NewUseCases -. secretStore may be nil when no secret store is configured.
func NewUseCases(database *db.SQL, sec *security.Manager, secretStore auth.SecretStore, log logger.Interface) *Usecases {
	usersRepo := users.New(database, log)

	return &Usecases{
		Auth: auth.New(usersRepo, sec, secretStore, log),
	}
}
