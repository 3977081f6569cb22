package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromDatabaseTranslations(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
		wantIs     func(error) bool
	}{
		{"duplicate key becomes conflict", gorm.ErrDuplicatedKey, http.StatusConflict, IsConflict},
		{"foreign key violation becomes not found", gorm.ErrForeignKeyViolated, http.StatusNotFound, IsNotFound},
		{"missing record becomes not found", gorm.ErrRecordNotFound, http.StatusNotFound, IsNotFound},
		{"anything else becomes storage failure", errors.New("connection reset"), http.StatusInternalServerError, IsStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromDatabase("create", "favorite", tt.cause)
			assert.Equal(t, tt.wantStatus, err.StatusCode)
			assert.True(t, tt.wantIs(err))
			assert.ErrorIs(t, err.Cause, tt.cause)
		})
	}
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("cooking_time", "cooking time must be between 1 and 600 minutes")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "cooking_time", err.Field)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "cooking time must be between 1 and 600 minutes")
}

func TestApiErrUnwrapsToSentinel(t *testing.T) {
	err := NewInvalidOperationError("users cannot subscribe to themselves")

	require.True(t, errors.Is(err, ErrInvalidOperation))
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestGetFullErrorIncludesCause(t *testing.T) {
	cause := errors.New("unique constraint idx_favorite_user_recipe")
	err := FromDatabase("create", "favorite", gorm.ErrDuplicatedKey)
	err.Cause = cause

	full := err.GetFullError()
	assert.Contains(t, full, "favorite already exists")
	assert.Contains(t, full, "unique constraint")
}
