// Package sqldb defines the typed errors the repository layer surfaces to
// usecases and the HTTP layer.
package sqldb

import "github.com/school-management-toolkit/registrar/pkg/apperrors"

// DatabaseError wraps any storage failure that is not one of the more
// specific cases below.
type DatabaseError struct {
	App apperrors.InternalError
}

func (e DatabaseError) Error() string {
	return e.App.Error()
}

func (e DatabaseError) Wrap(call, function string, err error) error {
	_ = e.App.Wrap(call, function, err)
	e.App.Message = "database operation failed"

	return e
}

// NotFoundError -.
type NotFoundError struct {
	App apperrors.InternalError
}

func (e NotFoundError) Error() string {
	return e.App.Error()
}

func (e NotFoundError) Wrap(call, function string, err error) error {
	_ = e.App.Wrap(call, function, err)
	e.App.Message = "record not found"

	return e
}

// NotUniqueError -.
type NotUniqueError struct {
	App apperrors.InternalError
}

func (e NotUniqueError) Error() string {
	return e.App.Error()
}

func (e NotUniqueError) Wrap(call, function string, err error) error {
	_ = e.App.Wrap(call, function, err)
	e.App.Message = "record already exists"

	return e
}
