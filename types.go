package portal

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// IdentifierNamespace selects the column a credential lookup runs against.
// Students authenticate with their student ID, admins with their email.
type IdentifierNamespace string

const (
	NamespaceStudentID IdentifierNamespace = "student_id"
	NamespaceEmail     IdentifierNamespace = "email"
)

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, namespace IdentifierNamespace, identifier, password string) (string, error)
	SessionFromToken(token string) (*SessionObject, error)
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Name() string
	Role() string
}

// Config holds auth options. Implementations are constructed once at startup
// and treated as read only afterwards; rotating the signing key invalidates
// every outstanding token.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	// GetTokenExpiration returns the token validity window in seconds.
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, namespace IdentifierNamespace, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, namespace IdentifierNamespace, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] PORTAL "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] PORTAL "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] PORTAL "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] PORTAL "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
