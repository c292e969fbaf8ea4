package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

func TestStore_Insert_AssignsIDAndTimestamps(t *testing.T) {
	store := NewStore()

	doc, err := store.Insert(context.Background(), "things", ports.Document{"name": "first"})

	require.NoError(t, err)
	assert.NotEmpty(t, doc["id"])
	assert.NotNil(t, doc["created_at"])
	assert.NotNil(t, doc["updated_at"])
}

func TestStore_Insert_DuplicateIDConflicts(t *testing.T) {
	store := NewStore()
	_, err := store.Insert(context.Background(), "things", ports.Document{"id": "t-1"})
	require.NoError(t, err)

	_, err = store.Insert(context.Background(), "things", ports.Document{"id": "t-1"})

	assert.True(t, apperrors.IsConflict(err))
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	store := NewStore()
	_, err := store.Insert(context.Background(), "things", ports.Document{"id": "t-1", "name": "first"})
	require.NoError(t, err)

	doc, err := store.Get(context.Background(), "things", "t-1")
	require.NoError(t, err)
	doc["name"] = "mutated"

	fresh, err := store.Get(context.Background(), "things", "t-1")
	require.NoError(t, err)
	assert.Equal(t, "first", fresh["name"])
}

func TestStore_Get_NotFound(t *testing.T) {
	store := NewStore()

	_, err := store.Get(context.Background(), "things", "missing")

	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_Update_SkipsImmutableKeys(t *testing.T) {
	store := NewStore()
	created, err := store.Insert(context.Background(), "things", ports.Document{"id": "t-1", "name": "first"})
	require.NoError(t, err)

	updated, err := store.Update(context.Background(), "things", "t-1", ports.Document{
		"id":         "t-other",
		"created_at": "tampered",
		"name":       "second",
	})

	require.NoError(t, err)
	assert.Equal(t, "t-1", updated["id"])
	assert.Equal(t, created["created_at"], updated["created_at"])
	assert.Equal(t, "second", updated["name"])
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	_, err := store.Insert(context.Background(), "things", ports.Document{"id": "t-1"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "things", "t-1"))
	assert.True(t, apperrors.IsNotFound(store.Delete(context.Background(), "things", "t-1")))
}

func TestStore_List_FiltersWithJMESPath(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, doc := range []ports.Document{
		{"id": "a", "role": "admin", "active": true},
		{"id": "b", "role": "user", "active": true},
		{"id": "c", "role": "user", "active": false},
	} {
		_, err := store.Insert(ctx, "accounts", doc)
		require.NoError(t, err)
	}

	users, err := store.List(ctx, "accounts", "role == 'user'")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0]["id"])
	assert.Equal(t, "c", users[1]["id"])

	active, err := store.List(ctx, "accounts", "active")
	require.NoError(t, err)
	require.Len(t, active, 2)

	all, err := store.List(ctx, "accounts", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_List_InvalidFilter(t *testing.T) {
	store := NewStore()

	_, err := store.List(context.Background(), "accounts", "role ==")

	assert.True(t, apperrors.IsValidation(err))
}
