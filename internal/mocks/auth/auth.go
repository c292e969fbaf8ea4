package auth

// Package auth contains simple hand-written test doubles for the session
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
	"github.com/google/uuid"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore   = (*MockCredentialStore)(nil)
	_ ports.ProfileRepository = (*MemoryProfileRepo)(nil)
	_ ports.UsernameAllocator = (*StubUsernameAllocator)(nil)
)

// MockCredentialStore simulates a credential store for tests. Behavior can be
// overridden per method via the Func fields; otherwise it acts as a small
// deterministic in-memory provider.
type MockCredentialStore struct {
	CreateSessionFunc    func(ctx context.Context, email, password string) error
	DestroySessionFunc   func(ctx context.Context) error
	CurrentPrincipalFunc func(ctx context.Context) (domainauth.Principal, error)
	CreatePrincipalFunc  func(ctx context.Context, email, password, name string) (domainauth.Principal, error)

	mu         sync.Mutex
	accounts   map[string]account
	current    *domainauth.Principal
	nextSerial int
}

type account struct {
	principal domainauth.Principal
	password  string
}

// NewMockCredentialStore creates an empty in-memory credential store.
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{accounts: make(map[string]account)}
}

// Seed registers an account without establishing a session.
func (m *MockCredentialStore) Seed(p domainauth.Principal, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[strings.ToLower(p.Email)] = account{principal: p, password: password}
}

// SetCurrent forces the current principal, as if a session already existed.
func (m *MockCredentialStore) SetCurrent(p domainauth.Principal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &p
}

func (m *MockCredentialStore) CreateSession(ctx context.Context, email, password string) error {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, email, password)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[strings.ToLower(email)]
	if !ok || acct.password != password {
		return apperrors.Unauthenticated("invalid credentials")
	}
	m.current = &acct.principal
	return nil
}

func (m *MockCredentialStore) DestroySession(ctx context.Context) error {
	if m.DestroySessionFunc != nil {
		return m.DestroySessionFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return apperrors.Unauthenticated("no session")
	}
	m.current = nil
	return nil
}

func (m *MockCredentialStore) CurrentPrincipal(ctx context.Context) (domainauth.Principal, error) {
	if m.CurrentPrincipalFunc != nil {
		return m.CurrentPrincipalFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return domainauth.Principal{}, apperrors.Unauthenticated("no session")
	}
	return *m.current, nil
}

func (m *MockCredentialStore) CreatePrincipal(ctx context.Context, email, password, name string) (domainauth.Principal, error) {
	if m.CreatePrincipalFunc != nil {
		return m.CreatePrincipalFunc(ctx, email, password, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := m.accounts[key]; exists {
		return domainauth.Principal{}, apperrors.Conflict("email")
	}
	m.nextSerial++
	p := domainauth.Principal{
		ID:    fmt.Sprintf("principal-%d", m.nextSerial),
		Email: email,
		Name:  name,
	}
	m.accounts[key] = account{principal: p, password: password}
	return p, nil
}

// MemoryProfileRepo is an in-memory profile repository with the same error
// taxonomy as the persistent adapters.
type MemoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domainauth.Profile
}

// NewMemoryProfileRepo creates an empty in-memory profile repository.
func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{profiles: make(map[string]domainauth.Profile)}
}

// Put stores a profile directly, bypassing conflict checks. For test setup.
func (r *MemoryProfileRepo) Put(p domainauth.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.profiles[p.ID] = p
}

func (r *MemoryProfileRepo) FindByPrincipalID(_ context.Context, principalID string) (domainauth.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.PrincipalID == principalID {
			return p, nil
		}
	}
	return domainauth.Profile{}, apperrors.NotFound("profile")
}

func (r *MemoryProfileRepo) FindByUsername(_ context.Context, username string) (domainauth.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return domainauth.Profile{}, apperrors.NotFound("profile")
}

func (r *MemoryProfileRepo) Create(_ context.Context, profile domainauth.Profile) (domainauth.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.PrincipalID == profile.PrincipalID {
			return domainauth.Profile{}, apperrors.Conflict("principal_id")
		}
		if p.Username == profile.Username {
			return domainauth.Profile{}, apperrors.Conflict("username")
		}
	}
	profile.ID = uuid.NewString()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.profiles[profile.ID] = profile
	return profile, nil
}

func (r *MemoryProfileRepo) UpdateFields(_ context.Context, profileID string, patch ports.ProfilePatch) (domainauth.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return domainauth.Profile{}, apperrors.NotFound("profile")
	}
	if patch.Scope != nil {
		p.Scope = *patch.Scope
	}
	if patch.ProfileCompleted != nil {
		p.ProfileCompleted = *patch.ProfileCompleted
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	p.UpdatedAt = time.Now().UTC()
	r.profiles[profileID] = p
	return p, nil
}

// StubUsernameAllocator yields deterministic usernames, or delegates to
// GenerateFunc when set.
type StubUsernameAllocator struct {
	GenerateFunc func(ctx context.Context, seedName string) (string, error)

	mu      sync.Mutex
	counter int
}

func (s *StubUsernameAllocator) Generate(ctx context.Context, seedName string) (string, error) {
	if s.GenerateFunc != nil {
		return s.GenerateFunc(ctx, seedName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(seedName), " ", "."))
	if base == "" {
		base = "student"
	}
	if s.counter == 1 {
		return base, nil
	}
	return fmt.Sprintf("%s%d", base, s.counter), nil
}
