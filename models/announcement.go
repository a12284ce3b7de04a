package models

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	BannerURL *string   `json:"banner_url"`
	VideoURL  *string   `json:"video_url"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AnnouncementStats struct {
	Total        int `json:"total"`
	PublicCount  int `json:"public_count"`
	PrivateCount int `json:"private_count"`
}
