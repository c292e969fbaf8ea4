package postgres

// Package postgres persists profile documents in Postgres. It is the
// production implementation of ports.ProfileRepository.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

var _ ports.ProfileRepository = (*ProfileRepo)(nil)

const profileColumns = `id, principal_id, username, role, university_id, program_id, branch_id, profile_completed, created_at, updated_at`

// ProfileRepo provides database operations for profiles.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// EnsureSchema creates the profiles table and its uniqueness constraints.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return (&ProfileRepo{pool: pool}).ensureSchema(ctx)
}

func (r *ProfileRepo) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			principal_id TEXT NOT NULL,
			username TEXT NOT NULL,
			role TEXT NOT NULL,
			university_id TEXT,
			program_id TEXT,
			branch_id TEXT,
			profile_completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT profiles_principal_id_key UNIQUE (principal_id),
			CONSTRAINT profiles_username_key UNIQUE (username)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure profiles schema: %w", err)
	}
	return nil
}

func (r *ProfileRepo) FindByPrincipalID(ctx context.Context, principalID string) (domainauth.Profile, error) {
	return r.findBy(ctx, "principal_id", principalID)
}

func (r *ProfileRepo) FindByUsername(ctx context.Context, username string) (domainauth.Profile, error) {
	return r.findBy(ctx, "username", username)
}

func (r *ProfileRepo) findBy(ctx context.Context, column, value string) (domainauth.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s = $1`, profileColumns, column)
	row := r.pool.QueryRow(ctx, query, value)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.Profile{}, apperrors.NotFoundf("profile not found for %s", column)
		}
		return domainauth.Profile{}, mapPgErr(err, "find profile")
	}
	return profile, nil
}

func (r *ProfileRepo) Create(ctx context.Context, profile domainauth.Profile) (domainauth.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (principal_id, username, role, university_id, program_id, branch_id, profile_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+profileColumns,
		profile.PrincipalID,
		strings.TrimSpace(profile.Username),
		string(profile.Role),
		nullable(profile.Scope.UniversityID),
		nullable(profile.Scope.ProgramID),
		nullable(profile.Scope.BranchID),
		profile.ProfileCompleted,
	)

	created, err := scanProfile(row)
	if err != nil {
		return domainauth.Profile{}, mapPgErr(err, "create profile")
	}
	return created, nil
}

func (r *ProfileRepo) UpdateFields(ctx context.Context, profileID string, patch ports.ProfilePatch) (domainauth.Profile, error) {
	sets := []string{"updated_at = now()"}
	args := []any{profileID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Scope != nil {
		appendSet("university_id", nullable(patch.Scope.UniversityID))
		appendSet("program_id", nullable(patch.Scope.ProgramID))
		appendSet("branch_id", nullable(patch.Scope.BranchID))
	}
	if patch.ProfileCompleted != nil {
		appendSet("profile_completed", *patch.ProfileCompleted)
	}
	if patch.Role != nil {
		appendSet("role", string(*patch.Role))
	}

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), profileColumns)
	row := r.pool.QueryRow(ctx, query, args...)

	updated, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.Profile{}, apperrors.NotFound("profile not found")
		}
		return domainauth.Profile{}, mapPgErr(err, "update profile")
	}
	return updated, nil
}

func scanProfile(row pgx.Row) (domainauth.Profile, error) {
	var (
		profile      domainauth.Profile
		role         string
		universityID *string
		programID    *string
		branchID     *string
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(
		&profile.ID,
		&profile.PrincipalID,
		&profile.Username,
		&role,
		&universityID,
		&programID,
		&branchID,
		&profile.ProfileCompleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domainauth.Profile{}, err
	}

	// Stored role strings pass through unparsed: Profile.Validate decides
	// whether they are acceptable, never the repository.
	profile.Role = domainauth.Role(role)
	profile.Scope = domainauth.AcademicScope{
		UniversityID: deref(universityID),
		ProgramID:    deref(programID),
		BranchID:     deref(branchID),
	}
	profile.CreatedAt = createdAt
	profile.UpdatedAt = updatedAt
	return profile, nil
}

// mapPgErr translates driver errors onto the application taxonomy.
func mapPgErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case "profiles_username_key":
			return apperrors.Conflict("username already taken")
		case "profiles_principal_id_key":
			return apperrors.Conflict("profile already exists for principal")
		default:
			return apperrors.Conflict("duplicate profile")
		}
	}
	return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "%s", op)
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
