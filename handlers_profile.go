package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fintrack/models"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxAvatarBytes = 5 * 1024 * 1024
	avatarSize     = 512 // avatars are normalized to a square
)

func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "./public"
}

func getProfileFromContext(c *gin.Context) (*models.User, *models.Profile, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, nil, false
	}
	var p models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return nil, nil, false
	}
	return user, &p, true
}

func getProfileHandler(c *gin.Context) {
	_, p, ok := getProfileFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

func updateProfileHandler(c *gin.Context) {
	_, p, ok := getProfileFromContext(c)
	if !ok {
		return
	}
	var req struct {
		FullName string `json:"full_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Model(p).Update("full_name", strings.TrimSpace(req.FullName)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	p.FullName = strings.TrimSpace(req.FullName)
	c.JSON(http.StatusOK, p)
}

// uploadAvatarHandler accepts a multipart image, normalizes it to a bounded
// square, stores it under the public upload dir and records an Upload row.
// The profile's avatar URL points at the public path.
func uploadAvatarHandler(c *gin.Context) {
	_, profile, ok := getProfileFromContext(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a supported image"})
		return
	}
	img = imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	dir := filepath.Join(uploadBaseDir(), "avatars")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, name)
	if err := imaging.Save(img, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// Build store path (public exposure path). Files are served from the
	// '/public' prefix.
	storePath := "public/avatars/" + name
	up := models.Upload{
		ProfileID:   profile.ID,
		FileName:    name,
		StorePath:   storePath,
		ContentType: file.Header.Get("Content-Type"),
	}
	if err := db.Create(&up).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	avatarURL := "/" + storePath
	if err := db.Model(profile).Update("avatar_url", avatarURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": up.ID, "url": avatarURL, "store_path": storePath})
}
