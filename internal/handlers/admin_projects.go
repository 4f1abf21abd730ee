package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/models"
	"go.uber.org/zap"
)

// ProjectRequest represents project create/update input
type ProjectRequest struct {
	Title       string   `json:"title" binding:"required"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	DemoURL     string   `json:"demo_url"`
	GithubURL   string   `json:"github_url"`
	TechStack   []string `json:"tech_stack"`
}

func (r ProjectRequest) apply(project *models.Project) {
	project.Title = r.Title
	project.Type = r.Type
	project.Description = r.Description
	project.ImageURL = r.ImageURL
	project.DemoURL = r.DemoURL
	project.GithubURL = r.GithubURL
	project.TechStack = r.TechStack
}

// CreateProject adds a portfolio project (admin only)
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{}
	req.apply(project)
	if err := h.projectService.Create(c.Request.Context(), project); err != nil {
		respondStoreError(c, h.logger, err, "Project", "create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

// UpdateProject replaces a project's fields (admin only)
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "project")
	if !ok {
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.Get(ctx, id)
	if err != nil {
		respondStoreError(c, h.logger, err, "Project", "fetch project")
		return
	}

	oldImage := project.ImageURL
	req.apply(project)
	if err := h.projectService.Save(ctx, project); err != nil {
		respondStoreError(c, h.logger, err, "Project", "update project")
		return
	}
	if oldImage != project.ImageURL {
		h.removeImage(oldImage)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": project,
	})
}

// DeleteProject removes a project and its uploaded screenshot (admin only)
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "project")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	project, err := h.projectService.Get(ctx, id)
	if err != nil {
		respondStoreError(c, h.logger, err, "Project", "fetch project")
		return
	}
	if err := h.projectService.Delete(ctx, id); err != nil {
		respondStoreError(c, h.logger, err, "Project", "delete project")
		return
	}
	h.removeImage(project.ImageURL)

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) removeImage(publicPath string) {
	if err := h.storageService.DeleteImage(publicPath); err != nil {
		h.logger.Warn("Failed to remove project image", zap.String("path", publicPath), zap.Error(err))
	}
}
