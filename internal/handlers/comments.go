package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/services"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *services.CommentService
	logger         *zap.Logger
}

func NewCommentHandler(commentService *services.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// CommentRequest represents a visitor comment submission
type CommentRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"omitempty,email"`
	Comment string `json:"comment" binding:"required,max=2000"`
}

// ApprovalRequest toggles a comment's visibility
type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ListComments returns the approved comments shown on the site
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListApproved(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, err, "Comment", "fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// SubmitComment stores a visitor comment pending moderation
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	text := strings.TrimSpace(req.Comment)
	if name == "" || text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and comment are required"})
		return
	}

	comment, err := h.commentService.Submit(c.Request.Context(), name, strings.TrimSpace(req.Email), text)
	if err != nil {
		respondStoreError(c, h.logger, err, "Comment", "submit comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thanks! Your comment will appear once it has been approved.",
		"comment": comment,
	})
}

// LikeComment adds one like to an approved comment
func (h *CommentHandler) LikeComment(c *gin.Context) {
	id, ok := parseID(c, "comment")
	if !ok {
		return
	}

	likes, err := h.commentService.IncrementLikes(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, h.logger, err, "Comment", "like comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "likes": likes})
}

// ListAllComments returns every comment including pending ones (admin only)
func (h *CommentHandler) ListAllComments(c *gin.Context) {
	comments, err := h.commentService.ListAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, err, "Comment", "fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// SetApproval approves or hides a comment (admin only)
func (h *CommentHandler) SetApproval(c *gin.Context) {
	id, ok := parseID(c, "comment")
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.SetApproval(c.Request.Context(), id, *req.Approved)
	if err != nil {
		respondStoreError(c, h.logger, err, "Comment", "update comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment removes a comment (admin only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "comment")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, h.logger, err, "Comment", "delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
