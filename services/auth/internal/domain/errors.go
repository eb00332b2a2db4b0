package domain

import "errors"

// The refresh flow's failure kinds, in the order the rotation guard checks
// them. Every kind except transient store errors is terminal for the request.
var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrUnknownToken         = errors.New("refresh token not found")
	ErrMalformedAccessToken = errors.New("access token malformed or badly signed")
	ErrTokenMismatch        = errors.New("access token does not match refresh token")
	ErrReuseDetected        = errors.New("refresh token reuse detected")
	ErrTokenExpired         = errors.New("refresh token expired")
	ErrValidation           = errors.New("invalid request")
)

// Kind returns the stable machine-readable name surfaced to API clients.
// Unrecognized errors map to transient_error so that internal details never
// leak.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, ErrUnknownToken):
		return "unknown_token"
	case errors.Is(err, ErrMalformedAccessToken):
		return "malformed_access_token"
	case errors.Is(err, ErrTokenMismatch):
		return "token_mismatch"
	case errors.Is(err, ErrReuseDetected):
		return "reuse_detected"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "transient_error"
	}
}

// Terminal reports whether the error is a final answer for the request. A
// non-terminal (transient store) failure is safe for the caller to retry.
func Terminal(err error) bool {
	return Kind(err) != "transient_error"
}
