package devauth

// Package devauth provides an in-memory credential store for local
// development and tests. It implements the same typed error contract as the
// remote identity adapter so the session manager behaves identically.

import (
	"context"
	"strings"
	"sync"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
	"github.com/google/uuid"
)

var _ ports.CredentialStore = (*Store)(nil)

// Account is a seeded dev identity.
type Account struct {
	Principal domainauth.Principal
	Password  string
}

// Config controls the dev credential store.
type Config struct {
	// Accounts are pre-registered identities keyed by email.
	Accounts []Account
}

// Store is an in-memory credential store.
type Store struct {
	mu       sync.Mutex
	accounts map[string]Account // by email
	current  string             // email of the signed-in account, "" when none
}

// NewStore constructs a dev credential store with the configured accounts.
func NewStore(cfg Config) *Store {
	accounts := make(map[string]Account, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		accounts[strings.ToLower(a.Principal.Email)] = a
	}
	return &Store{accounts: accounts}
}

func (s *Store) CreateSession(_ context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[strings.ToLower(email)]
	if !ok || account.Password != password {
		return apperrors.Unauthenticated("invalid credentials")
	}
	s.current = strings.ToLower(email)
	return nil
}

func (s *Store) DestroySession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return apperrors.Unauthenticated("no session")
	}
	s.current = ""
	return nil
}

func (s *Store) CurrentPrincipal(_ context.Context) (domainauth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return domainauth.Principal{}, apperrors.Unauthenticated("no session")
	}
	return s.accounts[s.current].Principal, nil
}

func (s *Store) CreatePrincipal(_ context.Context, email, password, name string) (domainauth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.accounts[key]; exists {
		return domainauth.Principal{}, apperrors.Conflict("account already exists for email")
	}
	account := Account{
		Principal: domainauth.Principal{
			ID:    uuid.New().String(),
			Email: email,
			Name:  name,
		},
		Password: password,
	}
	s.accounts[key] = account
	return account.Principal, nil
}
