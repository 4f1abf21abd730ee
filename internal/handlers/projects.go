package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/services"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	storageService *services.StorageService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *services.ProjectService, storageService *services.StorageService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		storageService: storageService,
		logger:         logger,
	}
}

// ListProjects returns the portfolio, optionally filtered with ?type=
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projectType := strings.TrimSpace(c.Query("type"))

	projects, err := h.projectService.List(c.Request.Context(), projectType)
	if err != nil {
		respondStoreError(c, h.logger, err, "Project", "fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns a single project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "project")
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, h.logger, err, "Project", "fetch project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}
