package data

import "github.com/pkg/errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrEmailExists        = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrPasswordMismatch   = errors.New("password fields didn't match")
	ErrOldPasswordWrong   = errors.New("old password is not correct")
	ErrWeakPassword       = errors.New("password must be 8-32 characters with at least one upper case letter, one digit and one special character")
	ErrInvalidFieldType   = errors.New("field type is not one of the supported types")
	ErrForbidden          = errors.New("forbidden")
	ErrMutateDisabled     = errors.New("mutation disabled")
)
