package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceholderImage is served for records without an image of their own.
const PlaceholderImage = "/placeholder.svg"

type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Type        string         `gorm:"index" json:"type"` // e.g., Web App, Mobile, AI
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `json:"image_url"`
	DemoURL     string         `json:"demo_url"`
	GithubURL   string         `json:"github_url"`
	TechStack   []string       `gorm:"type:text;serializer:json" json:"tech_stack"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	return nil
}

func (p *Project) RecordKind() Kind {
	return KindProjects
}
