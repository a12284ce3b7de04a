package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Username     *string   `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    *string   `json:"avatar_url"`
	IsVerified   bool      `json:"is_verified"`
	IsPremium    bool      `json:"is_premium"`
	Role         string    `json:"role"`
	XP           int       `json:"xp"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserStats struct {
	TotalUsers int          `json:"total_users"`
	ByRole     RoleCounts   `json:"by_role"`
	ByStatus   StatusCounts `json:"by_status"`
}

type RoleCounts struct {
	Admin int `json:"admin"`
	User  int `json:"user"`
}

type StatusCounts struct {
	VerifiedUsers int `json:"verified_users"`
	PremiumUsers  int `json:"premium_users"`
	Unverified    int `json:"unverified"`
}
