package portal

import (
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/openexams/portal/middleware/sessionguard"
)

// SessionCookieName is the cookie that carries the session token
const SessionCookieName = "token"

type RouteAuthenticator struct {
	auth             Authenticator
	cfg              Config
	cookieDuration   time.Duration
	Logger           Logger
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Second
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// ProtectedRoute guards a route with session validation and an optional
// exact role requirement. An empty requiredRole only checks the token.
func (a *RouteAuthenticator) ProtectedRoute(requiredRole UserRole, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = a.GuardErrorHandler()
	}

	return sessionguard.New(sessionguard.Config{
		ErrorHandler:   errorHandler,
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		AuthScheme:     a.cfg.GetAuthScheme(),
		TokenValidator: newGuardValidator(a.auth),
		RequiredRole:   requiredRole,
	})
}

// GuardErrorHandler keeps the missing/invalid split: no token at all gets
// 401, a token that fails validation or carries the wrong role gets 403.
func (a *RouteAuthenticator) GuardErrorHandler() func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		if errors.Is(err, sessionguard.ErrTokenMissing) {
			return ctx.Status(http.StatusUnauthorized).SendString("Unauthorized")
		}

		a.Logger.Info("Session rejected", "error", err.Error(), "path", ctx.OriginalURL())
		return ctx.Status(http.StatusForbidden).SendString("Forbidden")
	}
}

// Login authenticates the credential pair and, on success, sets the session
// cookie on the response.
func (a *RouteAuthenticator) Login(ctx router.Context, namespace IdentifierNamespace, identifier, password string) error {
	token, err := a.auth.Login(ctx.Context(), namespace, identifier, password)
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return err
	}

	a.setCookieToken(ctx, token, a.cookieDuration)
	return nil
}

func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookieDel(ctx, SessionCookieName)
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     SessionCookieName,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "An unexpected authentication error").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error, redirecting to login",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	statusCode := http.StatusSeeOther
	if c.Method() == string(router.GET) {
		statusCode = http.StatusFound
	}
	return c.Redirect("/student_login", statusCode)
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return a.AuthErrorHandler(c, richErr)
	default:
		return c.Status(richErr.Code).Render("errors/500", router.ViewContext{
			"error": richErr,
		})
	}
}

// guardValidator bridges the Authenticator's token validation into the
// sessionguard middleware without an import cycle
type guardValidator struct {
	auth Authenticator
}

func newGuardValidator(auth Authenticator) guardValidator {
	return guardValidator{auth: auth}
}

func (g guardValidator) Validate(raw string) (sessionguard.AuthClaims, error) {
	session, err := g.auth.SessionFromToken(raw)
	if err != nil {
		return nil, err
	}
	return sessionClaims{session: session}, nil
}

// sessionClaims exposes a SessionObject through the guard's claims surface
type sessionClaims struct {
	session *SessionObject
}

func (s sessionClaims) Subject() string {
	return s.session.GetUserID()
}

func (s sessionClaims) UserID() string {
	return s.session.GetUserID()
}

func (s sessionClaims) Role() string {
	return s.session.GetRole()
}

func (s sessionClaims) HasRole(role string) bool {
	return s.session.HasRole(role)
}

func (s sessionClaims) Expires() time.Time {
	if s.session.ExpirationDate != nil {
		return *s.session.ExpirationDate
	}
	return time.Time{}
}

func (s sessionClaims) IssuedAt() time.Time {
	if s.session.IssuedAt != nil {
		return *s.session.IssuedAt
	}
	return time.Time{}
}

var _ AuthClaims = sessionClaims{}
