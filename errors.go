package portal

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCredentials is shared by unknown-identifier and
	// wrong-password failures so callers cannot tell them apart.
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenMissing       = "TOKEN_MISSING"
	TextCodeRoleMismatch       = "ROLE_MISMATCH"
	TextCodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	TextCodeStoreUnavailable   = "STORE_UNAVAILABLE"
)

// ErrInvalidCredentials is the single answer for any credential mismatch.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCredentials)

// ErrTokenExpired is returned for tokens past their expires-at claim.
var ErrTokenExpired = errors.New("session token is expired", errors.CategoryAuth).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers bad signatures and undecodable payloads.
var ErrTokenMalformed = errors.New("session token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenMissing is the no-cookie case; it maps to 401 where every other
// token failure maps to 403.
var ErrTokenMissing = errors.New("missing session token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMissing)

// ErrRoleMismatch is a flat deny; it never says which role would have passed.
var ErrRoleMismatch = errors.New("insufficient role", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeRoleMismatch)

// ErrDuplicateIdentity signals a registration against an identifier that is
// already taken in its namespace.
var ErrDuplicateIdentity = errors.New("identifier already registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeDuplicateIdentity)

// ErrStoreUnavailable wraps transient credential store failures; it is safe
// to retry and is surfaced to clients without internal detail.
var ErrStoreUnavailable = errors.New("credential store unavailable", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeStoreUnavailable)

// ErrUnableToFindSession is the error when our request has no decoded session
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode claims attached to the request
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeForbidden)

// NewDuplicateIdentityError builds a fresh conflict error so callers can
// attach metadata without touching the shared sentinel.
func NewDuplicateIdentityError(metadata map[string]any) *errors.Error {
	return errors.New("identifier already registered", errors.CategoryConflict).
		WithCode(errors.CodeConflict).
		WithTextCode(TextCodeDuplicateIdentity).
		WithMetadata(metadata)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsCredentialsError reports failures attributable to the submitted
// credentials. Backend failures while checking them are not credential
// errors and must not be answered as one.
func IsCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth
	}
	return false
}

// IsStoreUnavailableError reports transient credential store failures
func IsStoreUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	return errors.As(err, &rich) && rich.TextCode == TextCodeStoreUnavailable
}

// IsConflictError reports duplicate-identifier failures, including unique
// constraint violations bubbled up by the driver during racing registrations.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Category == errors.CategoryConflict {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
