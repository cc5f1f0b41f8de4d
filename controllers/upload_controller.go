package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/utils"
)

// GetAvatar handles GET /api/v1/avatars/:user/:file - serves avatars kept on
// local disk when no bucket is configured
func GetAvatar(c *gin.Context) {
	userID := c.Param("user")
	filename := c.Param("file")

	// Security: Prevent directory traversal attacks
	if !utils.IsSafePathSegment(userID) || !utils.IsSafePathSegment(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	filePath := filepath.Join(config.GetConfig().UploadDir, userID, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.File(filePath)
}
