package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/synqtech/synq-site/internal/models"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// List returns team members in the order they joined the site.
func (s *TeamService) List(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&members).Error
	return members, err
}

func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *TeamService) Create(ctx context.Context, member *models.TeamMember) error {
	if member.ImageURL == "" {
		member.ImageURL = models.PlaceholderImage
	}
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *TeamService) Save(ctx context.Context, member *models.TeamMember) error {
	return s.db.WithContext(ctx).Save(member).Error
}

func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.TeamMember{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
