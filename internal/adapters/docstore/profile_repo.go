package docstore

import (
	"context"
	"fmt"
	"time"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

var _ ports.ProfileRepository = (*ProfileRepo)(nil)

const profilesCollection = "profiles"

// ProfileRepo implements ports.ProfileRepository on top of the document
// store. Used in development mode and unit tests.
type ProfileRepo struct {
	store *Store
}

// NewProfileRepo creates a profile repository over a document store.
func NewProfileRepo(store *Store) *ProfileRepo {
	return &ProfileRepo{store: store}
}

func (r *ProfileRepo) FindByPrincipalID(ctx context.Context, principalID string) (domainauth.Profile, error) {
	return r.findOne(ctx, fmt.Sprintf("principal_id == '%s'", principalID), "principal id")
}

func (r *ProfileRepo) FindByUsername(ctx context.Context, username string) (domainauth.Profile, error) {
	return r.findOne(ctx, fmt.Sprintf("username == '%s'", username), "username")
}

func (r *ProfileRepo) findOne(ctx context.Context, filter, what string) (domainauth.Profile, error) {
	docs, err := r.store.List(ctx, profilesCollection, filter)
	if err != nil {
		return domainauth.Profile{}, err
	}
	if len(docs) == 0 {
		return domainauth.Profile{}, apperrors.NotFoundf("profile not found for %s", what)
	}
	return fromDocument(docs[0]), nil
}

func (r *ProfileRepo) Create(ctx context.Context, profile domainauth.Profile) (domainauth.Profile, error) {
	// The remote document store enforces these through unique indexes; the
	// in-memory stand-in probes first.
	if _, err := r.FindByPrincipalID(ctx, profile.PrincipalID); err == nil {
		return domainauth.Profile{}, apperrors.Conflict("profile already exists for principal")
	} else if !apperrors.IsNotFound(err) {
		return domainauth.Profile{}, err
	}
	if _, err := r.FindByUsername(ctx, profile.Username); err == nil {
		return domainauth.Profile{}, apperrors.Conflict("username already taken")
	} else if !apperrors.IsNotFound(err) {
		return domainauth.Profile{}, err
	}

	doc, err := r.store.Insert(ctx, profilesCollection, toDocument(profile))
	if err != nil {
		return domainauth.Profile{}, err
	}
	return fromDocument(doc), nil
}

func (r *ProfileRepo) UpdateFields(ctx context.Context, profileID string, patch ports.ProfilePatch) (domainauth.Profile, error) {
	fields := ports.Document{}
	if patch.Scope != nil {
		fields["university_id"] = patch.Scope.UniversityID
		fields["program_id"] = patch.Scope.ProgramID
		fields["branch_id"] = patch.Scope.BranchID
	}
	if patch.ProfileCompleted != nil {
		fields["profile_completed"] = *patch.ProfileCompleted
	}
	if patch.Role != nil {
		fields["role"] = string(*patch.Role)
	}

	doc, err := r.store.Update(ctx, profilesCollection, profileID, fields)
	if err != nil {
		return domainauth.Profile{}, err
	}
	return fromDocument(doc), nil
}

func toDocument(p domainauth.Profile) ports.Document {
	doc := ports.Document{
		"principal_id":      p.PrincipalID,
		"username":          p.Username,
		"role":              string(p.Role),
		"university_id":     p.Scope.UniversityID,
		"program_id":        p.Scope.ProgramID,
		"branch_id":         p.Scope.BranchID,
		"profile_completed": p.ProfileCompleted,
	}
	if p.ID != "" {
		doc["id"] = p.ID
	}
	return doc
}

func fromDocument(doc ports.Document) domainauth.Profile {
	profile := domainauth.Profile{
		ID:          str(doc["id"]),
		PrincipalID: str(doc["principal_id"]),
		Username:    str(doc["username"]),
		Role:        domainauth.Role(str(doc["role"])),
		Scope: domainauth.AcademicScope{
			UniversityID: str(doc["university_id"]),
			ProgramID:    str(doc["program_id"]),
			BranchID:     str(doc["branch_id"]),
		},
	}
	if completed, ok := doc["profile_completed"].(bool); ok {
		profile.ProfileCompleted = completed
	}
	if created, ok := doc["created_at"].(time.Time); ok {
		profile.CreatedAt = created
	}
	if updated, ok := doc["updated_at"].(time.Time); ok {
		profile.UpdatedAt = updated
	}
	return profile
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
