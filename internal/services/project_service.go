package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/synqtech/synq-site/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// List returns projects, newest first, optionally filtered by type.
func (s *ProjectService) List(ctx context.Context, projectType string) ([]models.Project, error) {
	query := s.db.WithContext(ctx).Model(&models.Project{})
	if projectType != "" {
		query = query.Where("type = ?", projectType)
	}

	var projects []models.Project
	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Create(ctx context.Context, project *models.Project) error {
	applyProjectDefaults(project)
	return s.db.WithContext(ctx).Create(project).Error
}

func (s *ProjectService) Save(ctx context.Context, project *models.Project) error {
	applyProjectDefaults(project)
	return s.db.WithContext(ctx).Save(project).Error
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyProjectDefaults(p *models.Project) {
	if p.ImageURL == "" {
		p.ImageURL = models.PlaceholderImage
	}
	if p.DemoURL == "" {
		p.DemoURL = "#"
	}
	if p.GithubURL == "" {
		p.GithubURL = "#"
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
}
