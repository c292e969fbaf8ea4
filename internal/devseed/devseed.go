// Package devseed provisions development data so a fresh checkout is
// immediately usable. It only runs for the in-memory dev credential store.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

// Options bundles the dependencies needed for development seeding.
type Options struct {
	Profiles  ports.ProfileRepository
	Usernames ports.UsernameAllocator
	Principal domainauth.Principal
	Logger    *slog.Logger
}

// EnsureProfile creates an admin profile for the seeded dev principal if one
// does not exist yet. The profile is marked complete so the dev account can
// reach every surface without walking the completion flow.
func EnsureProfile(ctx context.Context, opts Options) error {
	if opts.Profiles == nil || opts.Usernames == nil {
		return fmt.Errorf("devseed: profile repository and username allocator are required")
	}

	_, err := opts.Profiles.FindByPrincipalID(ctx, opts.Principal.ID)
	if err == nil {
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return fmt.Errorf("devseed: probe dev profile: %w", err)
	}

	username, err := opts.Usernames.Generate(ctx, opts.Principal.Name)
	if err != nil {
		return fmt.Errorf("devseed: allocate dev username: %w", err)
	}

	profile, err := opts.Profiles.Create(ctx, domainauth.Profile{
		PrincipalID:      opts.Principal.ID,
		Username:         username,
		Role:             domainauth.RoleAdmin,
		ProfileCompleted: true,
	})
	if err != nil {
		return fmt.Errorf("devseed: create dev profile: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Info("seeded dev profile",
			"principal_id", profile.PrincipalID,
			"username", profile.Username,
			"role", profile.Role,
		)
	}
	return nil
}
