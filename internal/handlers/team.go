package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/models"
	"github.com/synqtech/synq-site/internal/services"
	"go.uber.org/zap"
)

type TeamHandler struct {
	teamService    *services.TeamService
	storageService *services.StorageService
	logger         *zap.Logger
}

func NewTeamHandler(teamService *services.TeamService, storageService *services.StorageService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		storageService: storageService,
		logger:         logger,
	}
}

// TeamMemberRequest represents team member create/update input
type TeamMemberRequest struct {
	Name        string             `json:"name" binding:"required"`
	Role        string             `json:"role"`
	Bio         string             `json:"bio"`
	ImageURL    string             `json:"image_url"`
	SocialLinks models.SocialLinks `json:"social_links"`
}

func (r TeamMemberRequest) apply(member *models.TeamMember) {
	member.Name = r.Name
	member.Role = r.Role
	member.Bio = r.Bio
	member.ImageURL = r.ImageURL
	member.SocialLinks = r.SocialLinks
}

// ListTeam returns every team member
func (h *TeamHandler) ListTeam(c *gin.Context) {
	members, err := h.teamService.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, err, "Team member", "fetch team members")
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": members})
}

// CreateTeamMember adds a team member (admin only)
func (h *TeamHandler) CreateTeamMember(c *gin.Context) {
	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := &models.TeamMember{}
	req.apply(member)
	if err := h.teamService.Create(c.Request.Context(), member); err != nil {
		respondStoreError(c, h.logger, err, "Team member", "create team member")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team member created successfully",
		"member":  member,
	})
}

// UpdateTeamMember replaces a team member's fields (admin only)
func (h *TeamHandler) UpdateTeamMember(c *gin.Context) {
	id, ok := parseID(c, "team member")
	if !ok {
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	member, err := h.teamService.Get(ctx, id)
	if err != nil {
		respondStoreError(c, h.logger, err, "Team member", "fetch team member")
		return
	}

	oldImage := member.ImageURL
	req.apply(member)
	if member.ImageURL == "" {
		member.ImageURL = models.PlaceholderImage
	}
	if err := h.teamService.Save(ctx, member); err != nil {
		respondStoreError(c, h.logger, err, "Team member", "update team member")
		return
	}
	if oldImage != member.ImageURL {
		h.removeImage(oldImage)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member updated successfully",
		"member":  member,
	})
}

// DeleteTeamMember removes a team member and their uploaded photo (admin only)
func (h *TeamHandler) DeleteTeamMember(c *gin.Context) {
	id, ok := parseID(c, "team member")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	member, err := h.teamService.Get(ctx, id)
	if err != nil {
		respondStoreError(c, h.logger, err, "Team member", "fetch team member")
		return
	}
	if err := h.teamService.Delete(ctx, id); err != nil {
		respondStoreError(c, h.logger, err, "Team member", "delete team member")
		return
	}
	h.removeImage(member.ImageURL)

	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted successfully"})
}

func (h *TeamHandler) removeImage(publicPath string) {
	if err := h.storageService.DeleteImage(publicPath); err != nil {
		h.logger.Warn("Failed to remove team photo", zap.String("path", publicPath), zap.Error(err))
	}
}
