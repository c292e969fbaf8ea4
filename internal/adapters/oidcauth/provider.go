package oidcauth

// Package oidcauth implements the credential store against an OIDC provider
// for SSO deployments. Sessions are established through the resource-owner
// password grant and the principal is read from the UserInfo endpoint.
// Self-signup is not supported in this mode; account provisioning belongs to
// the identity provider.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

var _ ports.CredentialStore = (*Provider)(nil)

// ProviderConfig holds configuration for the OIDC credential store.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// Provider implements ports.CredentialStore using OIDC/OAuth2.
type Provider struct {
	config       *oauth2.Config
	oidcProvider *gooidc.Provider
	httpClient   *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewProvider creates a new OIDC credential store from a discovery URL.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	// Single discovery fetch; go-oidc accepts the bare issuer.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scope := cfg.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     op.Endpoint(),
			Scopes:       strings.Fields(scope),
		},
		oidcProvider: op,
		httpClient:   httpClient,
	}, nil
}

func (p *Provider) CreateSession(ctx context.Context, email, password string) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			(retrieveErr.Response.StatusCode == http.StatusBadRequest || retrieveErr.Response.StatusCode == http.StatusUnauthorized) {
			return apperrors.Unauthenticated("invalid credentials")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "token exchange failed")
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
	return nil
}

func (p *Provider) DestroySession(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == nil {
		return apperrors.Unauthenticated("no session")
	}
	p.token = nil
	return nil
}

func (p *Provider) CurrentPrincipal(ctx context.Context) (domainauth.Principal, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token == nil || !token.Valid() {
		return domainauth.Principal{}, apperrors.Unauthenticated("no session")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	info, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "fetch userinfo")
	}

	var claims struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := info.Claims(&claims); err != nil {
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "decode userinfo claims")
	}

	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}

	return domainauth.Principal{
		ID:    info.Subject,
		Email: info.Email,
		Name:  name,
	}, nil
}

func (p *Provider) CreatePrincipal(context.Context, string, string, string) (domainauth.Principal, error) {
	return domainauth.Principal{}, apperrors.Unsupported("self-signup is disabled under SSO; accounts are provisioned by the identity provider")
}
