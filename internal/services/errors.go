package services

import "errors"

// --- Custom Service Errors ---
var (
	// ErrAuthenticationRequired is returned when an operation is called without a principal.
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidPassword        = errors.New("password must be at least 6 characters and at most 72 bytes long")
	ErrUserAlreadyExists      = errors.New("user with this email already exists")
	ErrMobilePhoneExists      = errors.New("user with this mobile phone already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrForbidden              = errors.New("not allowed to modify another user")

	// ErrPrincipalNotFound means a valid token names a user that no longer exists.
	ErrPrincipalNotFound = errors.New("authenticated user not found")

	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client with this identification already exists")
	ErrInvalidClient       = errors.New("idType and idNumber must not be blank")
)
