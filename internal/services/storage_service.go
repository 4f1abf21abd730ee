package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/synqtech/synq-site/internal/config"
)

// Image folders under the upload directory.
const (
	FolderTeam     = "team"
	FolderProjects = "projects"
)

type StorageService struct {
	config *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	// Ensure upload directory exists
	os.MkdirAll(filepath.Join(cfg.UploadDir, FolderTeam), 0755)
	os.MkdirAll(filepath.Join(cfg.UploadDir, FolderProjects), 0755)

	return &StorageService{config: cfg}
}

// AllowedImageExtensions lists valid image extensions
var AllowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// MaxImageSize is the maximum allowed image size (5MB)
const MaxImageSize = 5 * 1024 * 1024

// SaveImage stores an uploaded team photo or project screenshot and
// returns the public path to put into image_url.
func (s *StorageService) SaveImage(folder string, file *multipart.FileHeader) (string, error) {
	if folder != FolderTeam && folder != FolderProjects {
		return "", fmt.Errorf("unknown image folder: %s", folder)
	}

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageExtensions[ext] {
		return "", fmt.Errorf("invalid file type: %s. Allowed: jpg, jpeg, png, gif, webp, svg", ext)
	}

	// Validate file size
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("file too large. Maximum size is 5MB")
	}

	dir := filepath.Join(s.config.UploadDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	// Generate unique filename
	filename := fmt.Sprintf("%s_%d%s", uuid.New().String()[:8], time.Now().Unix(), ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path.Join("/uploads", folder, filename), nil
}

// DeleteImage removes a file previously returned by SaveImage. Paths
// outside /uploads (placeholders, external URLs) are ignored.
func (s *StorageService) DeleteImage(publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, "/uploads/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.config.UploadDir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
