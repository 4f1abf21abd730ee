package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/synqtech/synq-site/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListAll returns every comment for moderation, newest first.
func (s *CommentService) ListAll(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// ListApproved returns the comments visitors may see.
func (s *CommentService) ListApproved(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// Submit stores a visitor comment. New comments wait for moderation.
func (s *CommentService) Submit(ctx context.Context, name, email, text string) (*models.Comment, error) {
	comment := &models.Comment{
		Name:       name,
		Email:      email,
		Comment:    text,
		IsApproved: false,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.Comment, error) {
	result := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.Get(ctx, id)
}

// IncrementLikes adds one like in a single UPDATE and returns the new total.
func (s *CommentService) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	result := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND is_approved = ?", id, true).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	comment, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return comment.Likes, nil
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
