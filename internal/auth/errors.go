package auth

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("account not found")
	ErrAlreadyExists    = errors.New("account already exists")
	ErrWrongPassword    = errors.New("wrong password")
	ErrAccountLocked    = errors.New("account is locked due to too many failed login attempts")
	ErrTokenMissing     = errors.New("no token provided")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Validation causes, each wrapping ErrValidation.
var (
	ErrEmailRequired    = ValidationError("email is required")
	ErrEmailInvalid     = ValidationError("invalid email format")
	ErrPasswordRequired = ValidationError("password is required")
	ErrPasswordTooShort = ValidationError("password is too short")
	ErrPasswordTooLong  = ValidationError("password exceeds maximum length of 72 bytes")
	ErrInvalidKind      = ValidationError("kind must be archaeologist or company")
)

type fieldError struct {
	msg string
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Unwrap() error { return ErrValidation }

// ValidationError returns an error wrapping ErrValidation whose message is
// safe to show to clients.
func ValidationError(msg string) error {
	return &fieldError{msg: msg}
}

// IsTokenError reports whether err should reject a request at the gate.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked)
}
