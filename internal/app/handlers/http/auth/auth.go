package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	httpError "github.com/svarg-dev/profilingbot/pkg/http"
)

// Claims содержимое токена административного API
type Claims struct {
	Subject string `json:"sub_name"`
	jwt.RegisteredClaims
}

// SignToken выпускает HS256-токен для административного API
func SignToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// RequireAuth пропускает запрос дальше только с валидным Bearer-токеном
func RequireAuth(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			httpError.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if _, err := parseToken(secret, tok); err != nil {
			httpError.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
