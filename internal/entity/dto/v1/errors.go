package dto

import "github.com/school-management-toolkit/registrar/pkg/apperrors"

// NotValidError marks a request that failed input validation.
type NotValidError struct {
	App apperrors.InternalError
}

func (e NotValidError) Error() string {
	return e.App.Error()
}

func (e NotValidError) Wrap(call, function string, err error) error {
	_ = e.App.Wrap(call, function, err)
	e.App.Message = "request is not valid"

	return e
}
