package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes through domain errors", func(t *testing.T) {
		err := NewConflict("flat is already sold", nil)
		mapped := ToDomainError(err)
		assert.Equal(t, "CONFLICT", mapped.Code)
		assert.Equal(t, 409, mapped.HTTPStatus)
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewValidationError("price must be a non-negative number", nil))
		mapped := ToDomainError(err)
		assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
		assert.Equal(t, 400, mapped.HTTPStatus)
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		mapped := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", mapped.Code)
		assert.Equal(t, 404, mapped.HTTPStatus)
	})

	t.Run("defaults to internal error", func(t *testing.T) {
		mapped := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
		assert.Equal(t, 500, mapped.HTTPStatus)
		assert.Equal(t, "internal server error", mapped.Message)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}

func TestDomainError_ErrorString(t *testing.T) {
	err := NewUploadError(errors.New("connection reset"))
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Error(), "image upload failed")
	assert.Contains(t, domainErr.Error(), "connection reset")
	assert.Equal(t, "UPLOAD_FAILED", domainErr.Code)
}

func TestErrorConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		err        error
		wantCode   string
		wantStatus int
	}{
		{NewValidationError("m", nil), "VALIDATION_FAILED", 400},
		{NewNotFound("flat", nil), "NOT_FOUND", 404},
		{NewUnauthenticated("m"), "UNAUTHENTICATED", 401},
		{NewForbidden("m"), "FORBIDDEN", 403},
		{NewConflict("m", nil), "CONFLICT", 409},
		{NewInvalidCredentials(), "INVALID_CREDENTIALS", 400},
		{NewUnsupportedMedia("m"), "UNSUPPORTED_MEDIA", 400},
		{NewPayloadTooLarge("m"), "PAYLOAD_TOO_LARGE", 400},
		{NewUploadError(nil), "UPLOAD_FAILED", 500},
		{NewPersistenceError(nil), "PERSISTENCE_FAILED", 500},
		{NewInternalError(nil), "INTERNAL_ERROR", 500},
	}

	for _, tt := range tests {
		mapped := ToDomainError(tt.err)
		assert.Equal(t, tt.wantCode, mapped.Code)
		assert.Equal(t, tt.wantStatus, mapped.HTTPStatus)
	}
}
