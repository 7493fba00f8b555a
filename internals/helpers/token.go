package helper

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"schoolhub_backend/internals/configs"
)

// SignToken issues the 1-day HS256 token handed out on teacher login.
func SignToken(id string) (string, error) {
	claims := jwt.MapClaims{
		"_id": id,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}
