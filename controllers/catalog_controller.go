package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/catalog"
)

// ListServices handles GET /api/v1/services
func ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalog.All(),
	})
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	svc, ok := catalog.Find(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    svc,
	})
}
