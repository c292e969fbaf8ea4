package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// DBConfig contains PostgreSQL configuration for the profile repository.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"campusarc"`
	Password string `env:"PASSWORD" envDefault:"campusarc"`
	Name     string `env:"NAME"     envDefault:"campusarc"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// EnsureSchemaOnStart controls whether the profile schema is applied during startup.
	EnsureSchemaOnStart bool `env:"ENSURE_SCHEMA_ON_START" envDefault:"true"`
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User, d.Password, hostPort, d.Name, d.SSLMode)
}

// RedisConfig contains Redis configuration for the web session store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// SessionTTL is the lifetime of a browser web session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}
