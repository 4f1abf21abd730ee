package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/migration"
	"github.com/synqtech/synq-site/internal/models"
	"github.com/synqtech/synq-site/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrationRunner re-runs the local data migration on demand.
type MigrationRunner interface {
	Run(ctx context.Context) migration.Report
}

type AdminHandler struct {
	db             *gorm.DB
	storageService *services.StorageService
	migrator       MigrationRunner
	logger         *zap.Logger
}

func NewAdminHandler(db *gorm.DB, storageService *services.StorageService, migrator MigrationRunner, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		db:             db,
		storageService: storageService,
		migrator:       migrator,
		logger:         logger,
	}
}

// GetDashboardStats returns content counts for the admin dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var stats struct {
		TeamMembers      int64 `json:"team_members"`
		Projects         int64 `json:"projects"`
		Comments         int64 `json:"comments"`
		ApprovedComments int64 `json:"approved_comments"`
		PendingComments  int64 `json:"pending_comments"`
		TotalLikes       int64 `json:"total_likes"`
	}

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.TeamMember{}), &stats.TeamMembers},
		{db.Model(&models.Project{}), &stats.Projects},
		{db.Model(&models.Comment{}), &stats.Comments},
		{db.Model(&models.Comment{}).Where("is_approved = ?", true), &stats.ApprovedComments},
		{db.Model(&models.Comment{}).Where("is_approved = ?", false), &stats.PendingComments},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			h.logger.Error("Failed to count dashboard stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}
	}

	if err := db.Model(&models.Comment{}).
		Select("COALESCE(SUM(likes), 0)").
		Scan(&stats.TotalLikes).Error; err != nil {
		h.logger.Error("Failed to sum comment likes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// RunMigration re-runs the local data migration and returns its report.
// A skipped run answers 409 so the panel can tell the operator to retry.
func (h *AdminHandler) RunMigration(c *gin.Context) {
	if h.migrator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data migration is not configured"})
		return
	}

	report := h.migrator.Run(c.Request.Context())
	if report.Skipped {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Data migration skipped: " + report.SkipReason,
			"report": report,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"failed": report.Failed(),
	})
}

// UploadImage stores a team photo or project screenshot and returns its URL.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	folder := c.Param("folder")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}

	url, err := h.storageService.SaveImage(folder, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Image uploaded", zap.String("folder", folder), zap.String("url", url))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
