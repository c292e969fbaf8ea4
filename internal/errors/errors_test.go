package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	plain := NotFound("profile not found")
	assert.Equal(t, "profile not found", plain.Error())

	wrapped := Wrap(stderrors.New("connection refused"), ErrCodeUnavailable, "fetch profile")
	assert.Equal(t, "fetch profile: connection refused", wrapped.Error())
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := stderrors.New("row scan failed")
	err := Wrap(cause, ErrCodeUnavailable, "fetch profile")

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsUnavailable(err))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "should not happen"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "should not happen %d", 1))
}

func TestPredicates_MatchWrappedErrors(t *testing.T) {
	inner := Conflict("username taken")
	outer := Wrap(inner, ErrCodeConflict, "create profile")

	assert.True(t, IsConflict(outer))
	assert.False(t, IsNotFound(outer))
}

func TestPredicates_FalseForForeignErrors(t *testing.T) {
	err := stderrors.New("something else")

	assert.False(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.False(t, IsValidation(err))
	assert.False(t, IsUnauthenticated(err))
	assert.False(t, IsIntegrity(err))
	assert.False(t, IsUnavailable(err))
	assert.False(t, IsUnsupported(err))
	assert.False(t, IsInternal(err))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("role", "unknown role")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "role", GetField(err))
}

func TestIntegrity_CarriesPrincipalID(t *testing.T) {
	err := Integrity("p-42", "profile missing for principal")

	assert.True(t, IsIntegrity(err))
	assert.Equal(t, "p-42", GetPrincipalID(err))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeUnsupported, GetCode(Unsupported("signup disabled")))
	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}
