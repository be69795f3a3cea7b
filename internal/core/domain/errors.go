package domain

import "errors"

// Core error taxonomy. Persistence-layer errors are translated to one of
// these at the repository or service boundary and never leak verbatim.
var (
	// ErrInvalidInput rejects malformed input at the boundary, e.g. an
	// empty raw password handed to the codec.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheNotInitialized signals a credential-cache read before warm-up.
	// Seeing it in steady state means the startup ordering is broken.
	ErrCacheNotInitialized = errors.New("credential cache not initialized")

	// ErrUnknownCacheKey signals a credential-cache read for a key outside
	// the fixed default set.
	ErrUnknownCacheKey = errors.New("unknown credential cache key")

	// ErrPrincipalNotFound is internal to the authentication pipeline: the
	// login email matched no account. It is surfaced to callers as
	// ErrInvalidCredentials so an unknown email is indistinguishable from a
	// wrong password.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrInvalidCredentials is the only user-visible login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means no authenticated session: prompt login.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden means authenticated but under-privileged: access denied.
	ErrForbidden = errors.New("access forbidden")

	// ErrAccountNotFound reports an update/delete/lookup on a missing id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRoleNotFound reports a lookup for a role name that does not exist.
	ErrRoleNotFound = errors.New("role not found")

	// ErrDuplicateKey maps a unique-constraint violation (email or role
	// name). During bootstrap it is recovered locally as "already exists".
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTooManyAttempts reports a login throttled by the failure window.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
