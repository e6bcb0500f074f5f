package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, IsUnauthorized},
		{"not found", http.StatusNotFound, IsNotFound},
		{"bad request", http.StatusBadRequest, IsValidation},
		{"unprocessable", http.StatusUnprocessableEntity, IsValidation},
		{"server error", http.StatusInternalServerError, IsRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.status, "", "")
			assert.True(t, tt.check(err), "unexpected kind for %d: %v", tt.status, err)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestClientErrUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list projects: %w", NewNetworkError("GET /api/projects", cause))

	assert.True(t, IsNetwork(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsUnauthorized(err))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "", StatusMessage(nil))
	assert.Equal(t, "❌ Title is required", StatusMessage(NewValidationError("title", "title is required")))
	assert.Equal(t, "❌ Session expired, please log in again", StatusMessage(NewAuthError("token expired")))
	assert.Contains(t, StatusMessage(NewNetworkError("GET", errors.New("dial"))), "Could not reach")
	assert.Equal(t, "❌ Boom", StatusMessage(errors.New("boom")))
}

func TestStatusMessageMultiByteFirstRune(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"élément already exists", "❌ Élément already exists"},
		{"ñame is taken", "❌ Ñame is taken"},
		{"日本 failed", "❌ 日本 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := StatusMessage(FromStatus(http.StatusConflict, tt.message, ""))
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApiErrKinds(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("project not found")))
	assert.True(t, IsUnauthorized(NewInvalidTokenError()))
	assert.True(t, IsInvalidTokenError(NewInvalidTokenError()))
	assert.True(t, IsMissingRequiredFieldError(NewMissingRequiredFieldError("title")))
	assert.Equal(t, "title is required", NewMissingRequiredFieldError("title").Message())

	wrapped := NewInternalErrorWithCause("save failed", NewNotFoundError("inner"))
	assert.Equal(t, "save failed -> inner", wrapped.GetFullError())
}
