package response

import (
	"errors"
)

var (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserExist          = "user already exists"
	ErrUnauthorized       = "unauthenticated"
	ErrPersistence        = "failed to persist change"
)

// ResolveError maps a domain error onto its API representation, matching the
// root cause so wrapped errors resolve the same as bare ones.
func ResolveError(err error) Error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}

	switch err.Error() {
	case ErrUserExist:
		return NewUserExistError()
	case ErrInvalidCredentials:
		return NewInvalidCredentialsError()
	case ErrUnauthorized:
		return NewUnauthorizedError()
	default:
		return NewInternalError()
	}
}
