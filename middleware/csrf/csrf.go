package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

var (
	ErrTokenMismatch    = errors.New("CSRF token mismatch")
	ErrTokenMissing     = errors.New("CSRF token missing")
	ErrTokenExpired     = errors.New("CSRF token expired")
	ErrSecureKeyMissing = errors.New("CSRF secure key required")
)

// DefaultContextKey is the locals key the minted token is stored under.
// With PassLocalsToViews enabled the token flows straight into templates.
const DefaultContextKey = "csrf_token"

// DefaultFormFieldName is the hidden form field carrying the token back.
const DefaultFormFieldName = "_token"

// DefaultHeaderName is the request header checked when no form field is present.
const DefaultHeaderName = "X-CSRF-Token"

// DefaultMaxAge bounds how long a minted token stays valid.
const DefaultMaxAge = time.Hour

const tokenNonceLength = 32

// Config defines the configuration for the CSRF middleware. Tokens are
// stateless: a random nonce plus timestamp signed with SecureKey, so no
// server side storage is involved.
type Config struct {
	// Filter defines a function to skip the middleware entirely
	Filter func(router.Context) bool

	// ContextKey defines the locals key for the minted token
	ContextKey string

	// FormFieldName defines the form field checked on unsafe methods
	FormFieldName string

	// HeaderName defines the header checked when the form field is empty
	HeaderName string

	// SafeMethods lists HTTP methods that skip validation
	SafeMethods []string

	// MaxAge bounds token validity
	MaxAge time.Duration

	// SecureKey signs and verifies tokens. Required.
	SecureKey []byte

	// ErrorHandler handles validation failures
	ErrorHandler func(router.Context, error) error
}

// New creates a CSRF middleware. Every request gets a fresh token in locals;
// unsafe methods must echo a valid token back through the form field or header.
func New(config ...Config) router.MiddlewareFunc {
	cfg := configDefault(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			token, err := mintToken(cfg)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, token)
			ctx.Locals(cfg.ContextKey+"_field", cfg.FormFieldName)

			method := strings.ToUpper(ctx.Method())
			if slices.Contains(cfg.SafeMethods, method) {
				return hf(ctx)
			}

			received := ctx.FormValue(cfg.FormFieldName)
			if received == "" {
				received = ctx.GetString(cfg.HeaderName, "")
			}

			if err := validateToken(cfg, received); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			return hf(ctx)
		}
	}
}

// TokenFromContext returns the token minted for the current request.
func TokenFromContext(ctx router.Context, contextKey ...string) string {
	key := DefaultContextKey
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}
	token, _ := ctx.Locals(key).(string)
	return token
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultFormFieldName
	}

	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultHeaderName
	}

	if len(cfg.SafeMethods) == 0 {
		cfg.SafeMethods = []string{"GET", "HEAD", "OPTIONS"}
	}

	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	return cfg
}

// DefaultErrorHandler rejects the request without leaking why validation failed.
func DefaultErrorHandler(ctx router.Context, _ error) error {
	return ctx.Status(router.StatusForbidden).SendString("Forbidden")
}

func mintToken(cfg Config) (string, error) {
	if len(cfg.SecureKey) == 0 {
		return "", ErrSecureKeyMissing
	}

	nonce := make([]byte, tokenNonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	payload := fmt.Sprintf("%d:%s", time.Now().UTC().Unix(), hex.EncodeToString(nonce))
	token := payload + ":" + hex.EncodeToString(sign(cfg.SecureKey, payload))

	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

func validateToken(cfg Config, token string) error {
	if token == "" {
		return ErrTokenMissing
	}

	if len(cfg.SecureKey) == 0 {
		return ErrSecureKeyMissing
	}

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrTokenMismatch
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 3 {
		return ErrTokenMismatch
	}

	payload := parts[0] + ":" + parts[1]
	signature, err := hex.DecodeString(parts[2])
	if err != nil {
		return ErrTokenMismatch
	}

	if !hmac.Equal(signature, sign(cfg.SecureKey, payload)) {
		return ErrTokenMismatch
	}

	issued, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrTokenMismatch
	}

	age := time.Since(time.Unix(issued, 0).UTC())
	if age < 0 || age > cfg.MaxAge {
		return ErrTokenExpired
	}

	return nil
}

func sign(key []byte, payload string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
