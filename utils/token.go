package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AccessTokenTTL is the lifetime of the access JWT and its cookie.
	AccessTokenTTL = 30 * 24 * time.Hour
	// RefreshTokenTTL governs the refresh JWT, its cookie and the persisted
	// token row alike.
	RefreshTokenTTL = 7 * 24 * time.Hour
	// VerificationTTL is how long an emailed OTP code stays valid.
	VerificationTTL = 24 * time.Hour
)

type TokenPayload struct {
	UserID uuid.UUID
	Role   string
	Email  string
}

func GenerateAccessToken(payload TokenPayload) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"user_id": payload.UserID.String(),
		"role":    payload.Role,
		"email":   payload.Email,
		"exp":     time.Now().Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(userID uuid.UUID) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(RefreshTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateAccessToken(tokenString string) (*TokenPayload, error) {
	secret := os.Getenv("JWT_SECRET")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.New("invalid token")
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return &TokenPayload{
		UserID: userID,
		Role:   role,
		Email:  email,
	}, nil
}

// GenerateVerificationCode returns a random 6-digit code in 100000-999999.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
