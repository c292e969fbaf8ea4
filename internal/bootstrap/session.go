package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusarc/campusarc/config"
	"github.com/campusarc/campusarc/internal/adapters/devauth"
	"github.com/campusarc/campusarc/internal/adapters/docstore"
	"github.com/campusarc/campusarc/internal/adapters/identity"
	"github.com/campusarc/campusarc/internal/adapters/oidcauth"
	"github.com/campusarc/campusarc/internal/adapters/postgres"
	"github.com/campusarc/campusarc/internal/adapters/usernames"
	"github.com/campusarc/campusarc/internal/devseed"
	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/ports"
	"github.com/campusarc/campusarc/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionConfig contains configuration for the session manager.
type SessionConfig struct {
	Config *config.AppConfig
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// BuildSessionManager creates a session manager based on the configured auth
// mode. Returns nil if configuration is invalid or incomplete.
func BuildSessionManager(ctx context.Context, cfg SessionConfig) *service.SessionManager {
	if cfg.Config == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	credentials, devPrincipal := buildCredentialStore(ctx, cfg, logger)
	if credentials == nil {
		return nil
	}

	profiles := buildProfileRepository(cfg, logger)
	allocator := usernames.NewAllocator(profiles)

	if devPrincipal != nil {
		seedErr := devseed.EnsureProfile(ctx, devseed.Options{
			Profiles:  profiles,
			Usernames: allocator,
			Principal: *devPrincipal,
			Logger:    logger,
		})
		if seedErr != nil {
			logger.Warn("dev profile seeding failed", "error", seedErr)
		}
	}

	return service.NewSessionManager(service.SessionManagerOptions{
		Credentials: credentials,
		Profiles:    profiles,
		Usernames:   allocator,
		Logger:      logger,
	})
}

// buildCredentialStore selects the credential store backend at runtime. For
// dev mode it also returns the seeded principal so a matching profile can be
// provisioned.
//
//nolint:ireturn // the credential store backend is selected at runtime.
func buildCredentialStore(ctx context.Context, cfg SessionConfig, logger *slog.Logger) (ports.CredentialStore, *domainauth.Principal) {
	auth := cfg.Config.Auth

	switch auth.Mode {
	case config.AuthModeRemote:
		client, err := identity.NewClient(identity.Config{
			BaseURL: auth.Identity.BaseURL,
			Timeout: time.Duration(auth.Identity.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			logger.Warn("failed to create identity client, auth disabled", "error", err)
			return nil, nil
		}
		return client, nil

	case config.AuthModeOIDC:
		oidcCfg := auth.OIDC
		if oidcCfg.DiscoveryURL == "" || oidcCfg.ClientID == "" || oidcCfg.ClientSecret == "" {
			logger.Warn("AuthModeOIDC selected but required config missing; auth disabled",
				"discovery_url_empty", oidcCfg.DiscoveryURL == "",
				"client_id_empty", oidcCfg.ClientID == "",
				"client_secret_empty", oidcCfg.ClientSecret == "",
			)
			return nil, nil
		}
		prov, err := oidcauth.NewProvider(ctx, oidcauth.ProviderConfig{
			ClientID:     oidcCfg.ClientID,
			ClientSecret: oidcCfg.ClientSecret,
			Scope:        oidcCfg.Scope,
			DiscoveryURL: oidcCfg.DiscoveryURL,
		})
		if err != nil {
			logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
			return nil, nil
		}
		return prov, nil

	case config.AuthModeDev:
		principal := domainauth.Principal{
			ID:    uuid.NewString(),
			Email: auth.DevAuth.Email,
			Name:  auth.DevAuth.Name,
		}
		store := devauth.NewStore(devauth.Config{
			Accounts: []devauth.Account{{
				Principal: principal,
				Password:  auth.DevAuth.Password,
			}},
		})
		return store, &principal

	default:
		logger.Warn("unknown auth mode; auth disabled", "mode", auth.Mode)
		return nil, nil
	}
}

//nolint:ireturn // dev mode swaps in the in-memory repository.
func buildProfileRepository(cfg SessionConfig, logger *slog.Logger) ports.ProfileRepository {
	if cfg.Pool != nil {
		return postgres.NewProfileRepo(cfg.Pool)
	}

	logger.Warn("postgres pool not configured, using in-memory profile store")
	return docstore.NewProfileRepo(docstore.NewStore())
}
