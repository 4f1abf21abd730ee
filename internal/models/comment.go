package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `json:"email"`
	Comment    string         `gorm:"type:text;not null" json:"comment"`
	Likes      int            `gorm:"default:0" json:"likes"`
	IsApproved bool           `gorm:"default:false;index" json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Comment) RecordKind() Kind {
	return KindComments
}

