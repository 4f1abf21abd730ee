package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocialLinks struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Instagram string `json:"instagram"`
}

type TeamMember struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Role        string         `json:"role"` // e.g., CEO, Frontend Developer
	Bio         string         `gorm:"type:text" json:"bio"`
	ImageURL    string         `json:"image_url"`
	SocialLinks SocialLinks    `gorm:"type:text;serializer:json" json:"social_links"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *TeamMember) RecordKind() Kind {
	return KindTeamMembers
}
