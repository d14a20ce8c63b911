package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation(ValidationInvalidInput, "bad"), http.StatusBadRequest},
		{"not found", NewNotFound(CategoryNotFound, "missing"), http.StatusNotFound},
		{"ownership", NewUnauthorized(AuthzForbidden, "nope"), http.StatusForbidden},
		{"conflict", NewConflict(CategoryNameExists, "dup"), http.StatusConflict},
		{"wrapped", fmt.Errorf("rename: %w", NewConflict(CategoryNameExists, "dup")), http.StatusConflict},
		{"unknown", stderrors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(stderrors.New(`ERROR: duplicate key value violates unique constraint "idx_categories_owner_name" (SQLSTATE 23505)`)))
	assert.True(t, IsDuplicateKey(stderrors.New("UNIQUE constraint failed: categories.owner_id, categories.name")))
	assert.False(t, IsDuplicateKey(stderrors.New("connection refused")))
	assert.False(t, IsDuplicateKey(nil))
}

func TestRespondWithServiceError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithServiceError(c, stderrors.New("dial tcp 10.0.0.5:5432: connection refused"), "rename category")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, InternalServerError, body.Error)
}

func TestRespondWithServiceError_DomainFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithServiceError(c, NewValidationFields("validation failed", map[string]string{"name": "is required"}), "create gear")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ValidationInvalidInput, body.Error)
	assert.Equal(t, "is required", body.Fields["name"])
}
