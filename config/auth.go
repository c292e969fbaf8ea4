package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the credential-store backend for the application.
type AuthMode string

const (
	// AuthModeRemote uses the first-party identity service over HTTP.
	AuthModeRemote AuthMode = "remote"
	// AuthModeOIDC uses an OIDC provider (SSO deployments; signup disabled).
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeDev uses an in-memory credential store (development only).
	AuthModeDev AuthMode = "dev"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "remote", "oidc", "dev":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: remote, oidc, dev)", v)
	}
}

// IdentityConfig contains first-party identity service configuration.
type IdentityConfig struct {
	BaseURL        string `env:"BASE_URL"        envDefault:"http://localhost:9090"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"10"`
}

// OIDCConfig contains OIDC/OAuth configuration (used when Mode=oidc).
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"campusarc"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig seeds the in-memory credential store identity.
// Used when AUTH_MODE=dev for development and testing.
type DevAuthConfig struct {
	Email    string `env:"EMAIL"    envDefault:"dev@example.com"`
	Password string `env:"PASSWORD" envDefault:"devpassword"`
	Name     string `env:"NAME"     envDefault:"Dev User"`
}

// AuthConfig groups all credential-store configuration.
type AuthConfig struct {
	// Mode determines which credential store backend to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"remote"`

	// Identity configuration (used when Mode=remote).
	Identity IdentityConfig `envPrefix:"IDENTITY_"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=dev).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}
