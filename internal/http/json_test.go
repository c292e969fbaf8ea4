package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/campusarc/campusarc/internal/errors"
)

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","bogus":1}`))
	rec := httptest.NewRecorder()

	ok := DecodeJSON(rec, req, &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, map[string]string{"k": "v"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestWriteAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "validation"},
		{"unauthenticated", apperrors.Unauthenticated("no session"), http.StatusUnauthorized, "unauthenticated"},
		{"not found", apperrors.NotFound("profile"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict, "conflict"},
		{"unavailable", apperrors.Unavailable("backend down"), http.StatusServiceUnavailable, "unavailable"},
		{"unsupported", apperrors.Unsupported("not implemented"), http.StatusNotImplemented, "unsupported"},
		{"integrity", apperrors.Integrity("p-1", "profile missing"), http.StatusInternalServerError, "integrity"},
		{"plain error", assert.AnError, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteAppError(rec, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, rec)["error"])
		})
	}
}

func TestWriteAppError_WrappedErrorKeepsCode(t *testing.T) {
	err := apperrors.Wrap(apperrors.Unavailable("redis down"), apperrors.ErrCodeUnavailable, "restore session")
	rec := httptest.NewRecorder()

	WriteAppError(rec, err)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
