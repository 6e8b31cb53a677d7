package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"ptaconnect/config"

	"github.com/golang-jwt/jwt"
)

const AuthCachePrefix = "auth:"

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT for the given member with their role baked
// into the claims. The token expires after the specified duration.
func GenerateToken(memberID, email, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   memberID,
		"email": email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ParseToken validates the token signature and expiry and returns the member ID
// and role claims.
func ParseToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}
	memberID, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if memberID == "" {
		return "", "", errors.New("missing subject claim")
	}
	return memberID, role, nil
}

// HashToken returns the hex-encoded SHA-256 of a token string, used as the
// cached credential so raw tokens never sit in Redis.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
