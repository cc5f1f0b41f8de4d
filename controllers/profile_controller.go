package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/sirupsen/logrus"
)

// UpdateProfileRequest represents the editable profile fields. Omitted
// fields are unchanged, empty strings clear the field.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

func newProfileService() *services.ProfileService {
	return services.NewProfileService(config.GetDB())
}

// GetProfile handles GET /api/v1/profile
func GetProfile(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	profile, err := newProfileService().Get(c.Request.Context(), session.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfile handles PUT /api/v1/profile
func UpdateProfile(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if store := services.GetS3Service(); store != nil {
		if err := services.NewAvatarService(store, nil).CheckURL(session.UserID, req.AvatarURL); err != nil {
			respondServiceError(c, err, "Failed to update profile")
			return
		}
	}

	profile, err := newProfileService().Update(c.Request.Context(), session.UserID, services.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// UploadAvatar handles POST /api/v1/profile/avatar (multipart field "file")
func UploadAvatar(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "Please select an image file")
		return
	}

	store := services.GetS3Service()
	if store == nil {
		logrus.Error("Avatar storage is not configured")
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Avatar storage is not available")
		return
	}

	profile, err := services.NewAvatarService(store, newProfileService()).Upload(c.Request.Context(), session.UserID, fileHeader)
	if err != nil {
		respondServiceError(c, err, "Failed to upload avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Avatar uploaded",
		"data":    profile,
	})
}
