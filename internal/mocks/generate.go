// Package mocks provides mock implementations for testing the session core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	creds := mocks.NewMockCredentialStore(ctrl)
//	creds.EXPECT().CurrentPrincipal(gomock.Any()).Return(principal, nil)
package mocks

// Generate mock for CredentialStore interface from internal/ports package.
// This creates MockCredentialStore with methods for all CredentialStore interface methods:
// CreateSession, DestroySession, CurrentPrincipal, CreatePrincipal
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/campusarc/campusarc/internal/ports CredentialStore

// Generate mock for ProfileRepository interface from internal/ports package.
// This creates MockProfileRepository with methods for all ProfileRepository interface methods:
// FindByPrincipalID, FindByUsername, Create, UpdateFields
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_repository_mock.go github.com/campusarc/campusarc/internal/ports ProfileRepository

// Generate mock for UsernameAllocator interface from internal/ports package.
// This creates MockUsernameAllocator with methods for all UsernameAllocator interface methods:
// Generate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=username_allocator_mock.go github.com/campusarc/campusarc/internal/ports UsernameAllocator
