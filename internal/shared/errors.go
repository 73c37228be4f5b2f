package shared

import "errors"

// Sentinels shared across modules. Auth failures always collapse to
// ErrInvalidCredentials so callers cannot distinguish a wrong password from
// a missing or unapproved account.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCSRFTokenMissing   = errors.New("csrf token missing")
	ErrCSRFTokenMismatch  = errors.New("csrf token mismatch")
)
