package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Credential store and session configuration
//   - database.go: Document store and Redis configuration
//   - http.go: HTTP server configuration
//   - guards.go: Navigation guard target configuration
type AppConfig struct {
	// IsDev controls development mode behavior (in-memory adapters, verbose logs).
	IsDev bool `env:"DEV" envDefault:"false"`

	// Auth groups credential-store configuration.
	Auth AuthConfig

	// Postgres and Redis back the profile repository and web session store.
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration.
	HTTP HTTPConfig

	// Guards holds the redirect targets consumed by the guard layer.
	Guards GuardConfig `envPrefix:"GUARD_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Guards.Sanitize()
}
