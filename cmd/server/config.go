package main

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds server configuration loaded from the environment. It also
// implements the auth Config interface consumed by the token service and
// session guard.
type Config struct {
	Addr            string `mapstructure:"PORT_ADDR"`
	DSN             string `mapstructure:"DATABASE_DSN"`
	SigningKey      string `mapstructure:"JWT_SECRET"`
	SigningMethod   string `mapstructure:"JWT_SIGNING_METHOD"`
	ContextKey      string `mapstructure:"JWT_CONTEXT_KEY"`
	TokenExpiration int    `mapstructure:"JWT_TOKEN_EXPIRATION"`
	TokenLookup     string `mapstructure:"JWT_TOKEN_LOOKUP"`
	AuthScheme      string `mapstructure:"JWT_AUTH_SCHEME"`
	Issuer          string `mapstructure:"JWT_ISSUER"`
	Audience        string `mapstructure:"JWT_AUDIENCE"`
	ExamFeedURL     string `mapstructure:"EXAM_FEED_URL"`
	ViewsDir        string `mapstructure:"VIEWS_DIR"`
	PublicDir       string `mapstructure:"PUBLIC_DIR"`
	CSRFEnabled     bool   `mapstructure:"CSRF_ENABLED"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. A missing .env is ignored; env vars override it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("PORT_ADDR", ":3000")
	v.SetDefault("DATABASE_DSN", "file:portal.db?cache=shared&_pragma=foreign_keys(1)")
	v.SetDefault("JWT_SIGNING_METHOD", "HS256")
	v.SetDefault("JWT_CONTEXT_KEY", "user")
	// one hour, in seconds
	v.SetDefault("JWT_TOKEN_EXPIRATION", 3600)
	v.SetDefault("JWT_TOKEN_LOOKUP", "cookie:token")
	v.SetDefault("JWT_AUTH_SCHEME", "Bearer")
	v.SetDefault("JWT_ISSUER", "exam-portal")
	v.SetDefault("JWT_AUDIENCE", "exam-portal")
	v.SetDefault("EXAM_FEED_URL", "")
	v.SetDefault("VIEWS_DIR", "./views")
	v.SetDefault("PUBLIC_DIR", "./public")
	// off by default; the form endpoints keep their documented responses
	// for plain HTTP clients unless the deployment opts in
	v.SetDefault("CSRF_ENABLED", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.SigningKey == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	if cfg.TokenExpiration <= 0 {
		cfg.TokenExpiration = 3600
	}

	return &cfg, nil
}

func (c *Config) GetSigningKey() string    { return c.SigningKey }
func (c *Config) GetSigningMethod() string { return c.SigningMethod }
func (c *Config) GetContextKey() string    { return c.ContextKey }

// GetTokenExpiration is the token validity window in seconds
func (c *Config) GetTokenExpiration() int { return c.TokenExpiration }

func (c *Config) GetTokenLookup() string { return c.TokenLookup }
func (c *Config) GetAuthScheme() string  { return c.AuthScheme }
func (c *Config) GetIssuer() string      { return c.Issuer }

func (c *Config) GetAudience() []string {
	if c.Audience == "" {
		return nil
	}
	parts := strings.Split(c.Audience, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
