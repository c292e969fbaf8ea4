package usernames

// Package usernames allocates unique usernames derived from a display name.

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
	"github.com/google/uuid"
)

var _ ports.UsernameAllocator = (*Allocator)(nil)

const (
	defaultMaxAttempts = 5
	fallbackSeed       = "student"
)

// Allocator probes the profile repository for availability, trying numeric
// suffixes up to a bounded attempt count, then a uuid-derived token as the
// final candidate.
type Allocator struct {
	profiles    availabilityProber
	maxAttempts int
}

// availabilityProber is the slice of ProfileRepository the allocator needs.
type availabilityProber interface {
	FindByUsername(ctx context.Context, username string) (domainauth.Profile, error)
}

// NewAllocator creates an allocator with the default attempt bound.
func NewAllocator(profiles availabilityProber) *Allocator {
	return &Allocator{profiles: profiles, maxAttempts: defaultMaxAttempts}
}

// Generate returns an available username derived from seedName, or a typed
// error after exhausting the bounded attempts.
func (a *Allocator) Generate(ctx context.Context, seedName string) (string, error) {
	base := Slugify(seedName)

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s%d", base, attempt+1)
		}

		available, err := a.available(ctx, candidate)
		if err != nil {
			return "", err
		}
		if available {
			return candidate, nil
		}
	}

	// Final candidate: uuid-derived token, effectively collision-free.
	candidate := fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
	available, err := a.available(ctx, candidate)
	if err != nil {
		return "", err
	}
	if available {
		return candidate, nil
	}
	return "", apperrors.Conflictf("could not allocate a username for %q after %d attempts", seedName, a.maxAttempts+1)
}

func (a *Allocator) available(ctx context.Context, candidate string) (bool, error) {
	_, err := a.profiles.FindByUsername(ctx, candidate)
	switch {
	case err == nil:
		return false, nil
	case apperrors.IsNotFound(err):
		return true, nil
	default:
		return false, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "probe username availability")
	}
}

// Slugify lowercases the seed and strips everything but letters, digits, and
// single separating dots.
func Slugify(seed string) string {
	var b strings.Builder
	lastDot := true // suppress leading dot
	for _, r := range strings.ToLower(strings.TrimSpace(seed)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDot = false
		case !lastDot:
			b.WriteRune('.')
			lastDot = true
		}
	}
	out := strings.TrimSuffix(b.String(), ".")
	if out == "" {
		return fallbackSeed
	}
	return out
}
