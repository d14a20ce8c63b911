package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/outdoortrails/trails-hub-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test-jwt-secret-for-middleware"
	testIssuer    = "trails-auth"
)

func setupMiddlewareTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())

	auth := NewAuthMiddleware(testJWTSecret, testIssuer)
	whoami := func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email})
	}
	router.GET("/test", auth.Authenticate(), whoami)
	router.GET("/ws", auth.AuthenticateWebSocket(), whoami)
	return router
}

func generateTestToken(t *testing.T, userID string, expiry time.Duration) string {
	token, err := util.GenerateToken(userID, "test@example.com", testJWTSecret, testIssuer, expiry)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router := setupMiddlewareTest()
	token := generateTestToken(t, "user-1", 15*time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_Authenticate_RejectsQueryToken(t *testing.T) {
	router := setupMiddlewareTest()
	token := generateTestToken(t, "user-1", 15*time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/test?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.AuthUnauthorized)
}

func TestAuthMiddleware_AuthenticateWebSocket(t *testing.T) {
	router := setupMiddlewareTest()
	token := generateTestToken(t, "user-1", 15*time.Minute)

	t.Run("query token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad query token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token=not-a-jwt", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), apperrors.AuthTokenInvalid)
	})
}

func TestAuthMiddleware_Authenticate_Failures(t *testing.T) {
	router := setupMiddlewareTest()

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"no token", "", apperrors.AuthUnauthorized},
		{"wrong scheme", "Basic abc", apperrors.AuthTokenInvalid},
		{"garbage token", "Bearer not-a-jwt", apperrors.AuthTokenInvalid},
		{"expired token", "Bearer " + generateTestToken(t, "user-1", -time.Minute), apperrors.AuthTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	router := setupMiddlewareTest()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
