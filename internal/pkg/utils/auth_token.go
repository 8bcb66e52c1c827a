package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/spf13/cast"
)

// AuthToken is the part of a decoded bearer token the service relies on.
// Role claims are not read, roles come from the store.
type AuthToken struct {
	UserCode int64
	Username string
}

// subject claims in priority order
var userCodeClaims = []string{"code", "user_code", "userCode", "userId", "sub"}

func ParseAuthToken(raw string, secret string) (*AuthToken, error) {
	if raw == "" {
		return nil, constants.ErrMissingAuthToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidAuthToken, err.Error())
	}
	if !token.Valid {
		return nil, constants.ErrInvalidAuthToken
	}

	res := &AuthToken{
		Username: strings.TrimSpace(cast.ToString(claims["username"])),
	}
	for _, key := range userCodeClaims {
		value, ok := claims[key]
		if !ok || value == nil {
			continue
		}
		code, castErr := cast.ToInt64E(value)
		if castErr != nil || code <= 0 {
			continue
		}
		res.UserCode = code
		break
	}

	if res.UserCode == 0 && res.Username == "" {
		return nil, fmt.Errorf("%w: token has no subject", constants.ErrInvalidAuthToken)
	}

	return res, nil
}

// GenerateAuthToken mints an HS256 token. Issuance belongs to the auth backend,
// this exists for local operation and tests.
func GenerateAuthToken(secret string, ttl time.Duration, userCode int64, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"code":     userCode,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseBearer extracts the token of an "Authorization: Bearer <token>" header.
func ParseBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	return token, token != ""
}
