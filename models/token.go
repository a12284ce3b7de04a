package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TokenTypeRefresh       = "refresh"
	TokenTypeVerification  = "verification"
	TokenTypePasswordReset = "password_reset"
)

type Token struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	Type      string    `json:"type"`
	IsUsed    bool      `json:"is_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
