package portal

import (
	"context"

	"github.com/goliatone/go-router"
)

// WSTokenValidator implements go-router's WSTokenValidator interface on top
// of a portal TokenValidator so WebSocket handshakes reuse the same session
// tokens the HTTP routes issue
type WSTokenValidator struct {
	validator TokenValidator
}

// NewWSTokenValidator creates a new WebSocket token validator using the
// provided validator, typically the TokenService or a MultiTokenValidator
// during signing key rotation
func NewWSTokenValidator(validator TokenValidator) *WSTokenValidator {
	return &WSTokenValidator{
		validator: validator,
	}
}

// Validate validates a token string and returns WebSocket-compatible auth claims
func (w *WSTokenValidator) Validate(tokenString string) (router.WSAuthClaims, error) {
	claims, err := w.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return &WSAuthClaimsAdapter{claims: claims}, nil
}

// WSAuthClaimsAdapter adapts portal AuthClaims to go-router's WSAuthClaims
// interface. Resource permissions derive from the role: admins manage exams,
// students only read them.
type WSAuthClaimsAdapter struct {
	claims AuthClaims
}

// Subject returns the subject claim
func (w *WSAuthClaimsAdapter) Subject() string {
	return w.claims.Subject()
}

// UserID returns the user ID
func (w *WSAuthClaimsAdapter) UserID() string {
	return w.claims.UserID()
}

// Role returns the user's role
func (w *WSAuthClaimsAdapter) Role() string {
	return w.claims.Role()
}

// CanRead checks if the user can read a specific resource
func (w *WSAuthClaimsAdapter) CanRead(resource string) bool {
	return IsValidRole(w.claims.Role())
}

// CanEdit checks if the user can edit a specific resource
func (w *WSAuthClaimsAdapter) CanEdit(resource string) bool {
	return roleCanManageExams(w.claims.Role())
}

// CanCreate checks if the user can create a specific resource
func (w *WSAuthClaimsAdapter) CanCreate(resource string) bool {
	return roleCanManageExams(w.claims.Role())
}

// CanDelete checks if the user can delete a specific resource
func (w *WSAuthClaimsAdapter) CanDelete(resource string) bool {
	return roleCanManageExams(w.claims.Role())
}

// HasRole checks if the user has a specific role
func (w *WSAuthClaimsAdapter) HasRole(role string) bool {
	return w.claims.HasRole(role)
}

// IsAtLeast checks if the user's role satisfies the minimum required role.
// Roles are flat, so this is an exact match.
func (w *WSAuthClaimsAdapter) IsAtLeast(minRole string) bool {
	return RoleAllows(w.claims.Role(), minRole)
}

// NewWSAuthMiddleware creates a fully configured WebSocket authentication
// middleware backed by the portal TokenService
func (a *Auther) NewWSAuthMiddleware(config ...router.WSAuthConfig) router.WebSocketMiddleware {
	validator := NewWSTokenValidator(a.tokenService)

	var cfg router.WSAuthConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	cfg.TokenValidator = validator

	return router.NewWSAuth(cfg)
}

// WSAuthClaimsFromContext retrieves the portal auth claims attached to a
// WebSocket connection context
func WSAuthClaimsFromContext(ctx context.Context) (AuthClaims, bool) {
	wsAuthClaims, ok := router.WSAuthClaimsFromContext(ctx)
	if !ok {
		return nil, false
	}

	if adapter, ok := wsAuthClaims.(*WSAuthClaimsAdapter); ok {
		return adapter.claims, true
	}

	return nil, false
}
