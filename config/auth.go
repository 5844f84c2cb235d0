package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents how the client authenticates users.
type AuthMode string

const (
	// AuthModeOIDC uses the OAuth device flow against an OIDC issuer.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeDev mints local credentials for a configured principal (development only).
	AuthModeDev AuthMode = "dev"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oidc", "dev":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, dev)", v)
	}
}

// OIDCConfig contains OIDC device-flow configuration.
type OIDCConfig struct {
	IssuerURL      string `env:"ISSUER_URL"`
	ClientID       string `env:"CLIENT_ID"       envDefault:"tripmate-cli"`
	ClientSecret   string `env:"CLIENT_SECRET"`
	Scope          string `env:"SCOPE"           envDefault:"openid profile email"`
	PrincipalClaim string `env:"PRINCIPAL_CLAIM" envDefault:"sub"`
}

// DevAuthConfig controls dev authentication identity.
// Used when AUTH_MODE=dev for development and testing.
type DevAuthConfig struct {
	Principal       string        `env:"PRINCIPAL"        envDefault:"dev-user"`
	DisplayName     string        `env:"DISPLAY_NAME"     envDefault:"Dev User"`
	Email           string        `env:"EMAIL"            envDefault:"dev@example.com"`
	Secret          string        `env:"SECRET"           envDefault:"tripmate-dev-secret"`
	Issuer          string        `env:"ISSUER"           envDefault:"tripmate-dev"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authenticator to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"dev"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=dev).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims identifiers and restores defaults for blank values.
func (c *AuthConfig) Sanitize() {
	c.OIDC.IssuerURL = strings.TrimSpace(c.OIDC.IssuerURL)
	c.OIDC.ClientID = strings.TrimSpace(c.OIDC.ClientID)
	if c.OIDC.PrincipalClaim = strings.TrimSpace(c.OIDC.PrincipalClaim); c.OIDC.PrincipalClaim == "" {
		c.OIDC.PrincipalClaim = "sub"
	}
	c.DevAuth.Principal = strings.TrimSpace(c.DevAuth.Principal)
	if c.DevAuth.SessionDuration < 0 {
		c.DevAuth.SessionDuration = 0
	}
}

// Validate reports configuration that cannot produce a working authenticator.
func (c *AuthConfig) Validate() error {
	switch c.Mode {
	case AuthModeOIDC:
		if c.OIDC.IssuerURL == "" {
			return fmt.Errorf("OIDC_ISSUER_URL is required when AUTH_MODE=oidc")
		}
		if c.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC_CLIENT_ID is required when AUTH_MODE=oidc")
		}
	case AuthModeDev:
		if c.DevAuth.Principal == "" {
			return fmt.Errorf("DEV_AUTH_PRINCIPAL is required when AUTH_MODE=dev")
		}
		if c.DevAuth.Secret == "" {
			return fmt.Errorf("DEV_AUTH_SECRET is required when AUTH_MODE=dev")
		}
	default:
		return fmt.Errorf("unsupported auth mode %q", c.Mode)
	}
	return nil
}
