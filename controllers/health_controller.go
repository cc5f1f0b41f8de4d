package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Honey Homes API is running",
	})
}

// DatabaseStatus checks database connectivity and returns table information
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get database instance")
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_CONNECTION_ERROR", "Database connection failed")
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
