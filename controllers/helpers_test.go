package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/middleware"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/honeyhomes/honey-homes-api/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")
	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:       "test",
		JWTSecret:   "controller-test-secret",
		JWTIssuer:   "honey-homes-api",
		JWTAudience: "honey-homes-web",
		TokenTTL:    time.Hour,
		UploadDir:   t.TempDir(),
	})
	services.SetEventPublisher(nil)
	return db
}

// createTestUser inserts a user with its role and an empty profile.
func createTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) *services.Session {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "unused"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error)
	require.NoError(t, db.Create(&models.Profile{ID: user.ID}).Error)

	return &services.Session{UserID: user.ID, Email: email, Role: role}
}

// mockSessionMiddleware stands in for token validation and session loading.
func mockSessionMiddleware(session *services.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session != nil {
			middleware.SetSession(c, session)
		}
		c.Next()
	}
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errBody, _ := response["error"].(map[string]interface{})
	code, _ := errBody["code"].(string)
	return code
}

func validBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Asha Rao",
		"phone":   "9876543210",
		"address": "12 MG Road, Bengaluru",
		"date":    "2026-11-02",
		"time":    "10:30",
	}
}
