package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/adapters/postgres"
	"github.com/campusarc/campusarc/internal/ports"
	"github.com/campusarc/campusarc/internal/testutil"
)

func testProfile(principalID, username string) domainauth.Profile {
	return domainauth.Profile{
		PrincipalID: principalID,
		Username:    username,
		Role:        domainauth.RoleUser,
		Scope: domainauth.AcademicScope{
			UniversityID: "u-1",
			ProgramID:    "prog-1",
			BranchID:     "b-1",
		},
	}
}

func TestProfileRepo_CreateAndFind(t *testing.T) {
	repo := postgres.NewProfileRepo(testutil.SetupTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, testProfile("p-1", "ada.lovelace"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byPrincipal, err := repo.FindByPrincipalID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPrincipal.ID)
	assert.Equal(t, "u-1", byPrincipal.Scope.UniversityID)

	byUsername, err := repo.FindByUsername(ctx, "ada.lovelace")
	require.NoError(t, err)
	assert.Equal(t, "p-1", byUsername.PrincipalID)
}

func TestProfileRepo_FindMissingIsNotFound(t *testing.T) {
	repo := postgres.NewProfileRepo(testutil.SetupTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByPrincipalID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProfileRepo_Create_UniqueViolations(t *testing.T) {
	repo := postgres.NewProfileRepo(testutil.SetupTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, testProfile("p-1", "ada.lovelace"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, testProfile("p-1", "other.name"))
	assert.True(t, apperrors.IsConflict(err))

	_, err = repo.Create(ctx, testProfile("p-2", "ada.lovelace"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestProfileRepo_UpdateFields(t *testing.T) {
	repo := postgres.NewProfileRepo(testutil.SetupTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, domainauth.Profile{
		PrincipalID: "p-1",
		Username:    "ada",
		Role:        domainauth.RoleUser,
	})
	require.NoError(t, err)

	completed := true
	scope := domainauth.AcademicScope{UniversityID: "u-2", ProgramID: "prog-2", BranchID: "b-2"}
	updated, err := repo.UpdateFields(ctx, created.ID, ports.ProfilePatch{
		Scope:            &scope,
		ProfileCompleted: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, scope, updated.Scope)
	assert.True(t, updated.ProfileCompleted)
	assert.Equal(t, domainauth.RoleUser, updated.Role)

	role := domainauth.RoleModerator
	updated, err = repo.UpdateFields(ctx, created.ID, ports.ProfilePatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleModerator, updated.Role)
	assert.Equal(t, scope, updated.Scope)
}

func TestProfileRepo_UpdateFields_NotFound(t *testing.T) {
	repo := postgres.NewProfileRepo(testutil.SetupTestDB(t))

	role := domainauth.RoleEditor
	_, err := repo.UpdateFields(context.Background(), "00000000-0000-0000-0000-000000000000", ports.ProfilePatch{Role: &role})

	assert.True(t, apperrors.IsNotFound(err))
}
