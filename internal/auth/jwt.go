package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/besuhoff/collision-demo-go/internal/config"
)

// Claims represents the join token claims. Subject is the session ID.
type Claims struct {
	SessionID string `json:"sub"`
	jwt.RegisteredClaims
}

// GenerateToken issues a join token for a session
func GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("empty session ID")
	}
	expirationTime := time.Now().Add(time.Duration(config.AppConfig.AccessTokenExpireMinutes) * time.Minute)

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.SecretKey))
}

// ValidateToken validates a join token and returns the session ID it grants
func ValidateToken(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(config.AppConfig.SecretKey), nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	if claims.SessionID == "" {
		return "", errors.New("missing session ID in token")
	}

	return claims.SessionID, nil
}
