package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrConflict           = errors.New("unique field already in use")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrEmptyPassword      = errors.New("password must not be empty")
	ErrNotImplemented     = errors.New("not implemented")
)
