package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseAuthToken(t *testing.T) {
	raw, err := GenerateAuthToken(testSecret, time.Hour, 42, "scrutineer")
	require.NoError(t, err)

	token, err := ParseAuthToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), token.UserCode)
	assert.Equal(t, "scrutineer", token.Username)
}

func TestParseAuthTokenRejects(t *testing.T) {
	expired, err := GenerateAuthToken(testSecret, -time.Hour, 1, "late")
	require.NoError(t, err)

	foreign, err := GenerateAuthToken("other-secret", time.Hour, 1, "x")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "Administrateur",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", constants.ErrMissingAuthToken},
		{"garbage", "not-a-jwt", constants.ErrInvalidAuthToken},
		{"expired", expired, constants.ErrInvalidAuthToken},
		{"wrong secret", foreign, constants.ErrInvalidAuthToken},
		{"no subject", noSubject, constants.ErrInvalidAuthToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAuthToken(tt.raw, testSecret)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseAuthTokenSubjectFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   int64
	}{
		{"string user id", jwt.MapClaims{"userId": "17"}, 17},
		{"user_code", jwt.MapClaims{"user_code": 8}, 8},
		{"code wins over sub", jwt.MapClaims{"code": 3, "sub": "9"}, 3},
		{"non numeric skipped", jwt.MapClaims{"code": "abc", "sub": "5"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.claims["exp"] = time.Now().Add(time.Hour).Unix()
			raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			token, err := ParseAuthToken(raw, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.want, token.UserCode)
		})
	}
}

func TestParseBearer(t *testing.T) {
	token, ok := ParseBearer("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = ParseBearer("Basic abc")
	assert.False(t, ok)

	_, ok = ParseBearer("Bearer   ")
	assert.False(t, ok)
}
