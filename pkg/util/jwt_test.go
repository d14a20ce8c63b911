package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken("user-123", "test@example.com", testSecret, "trails-auth", 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		issuer  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			issuer:  "trails-auth",
			wantErr: nil,
		},
		{
			name:    "Issuer not checked when unset",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Wrong issuer",
			token:   token,
			secret:  testSecret,
			issuer:  "someone-else",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret, tt.issuer)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, "user-123", claims.UserID())
				assert.Equal(t, "test@example.com", claims.Email)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-1", "test@example.com", testSecret, "", -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret, "")
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenWithoutSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := ValidateToken(signed, testSecret, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
