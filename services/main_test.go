package services

import (
	"context"
	"testing"
	"time"

	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	// Every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:       "test",
		JWTSecret:   "test-secret",
		JWTIssuer:   "honey-homes-api",
		JWTAudience: "honey-homes-web",
		TokenTTL:    time.Hour,
		AdminEmails: []string{"boss@honeyhomes.in"},
	}
}

func newTestAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, testConfig()).WithHashCost(bcrypt.MinCost)
}

// createUser signs a user up and, when role is not customer, promotes them.
func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) string {
	t.Helper()

	result, err := newTestAuthService(db).SignUp(context.Background(), SignUpInput{
		Email:    email,
		Password: "secret123",
		FullName: "Test " + string(role),
		Phone:    "9876543210",
	})
	require.NoError(t, err)

	if role != models.RoleCustomer {
		require.NoError(t, db.Model(&models.UserRole{}).
			Where("user_id = ?", result.User.ID).
			Update("role", role).Error)
	}
	return result.User.ID
}

func validBookingForm() BookingForm {
	return BookingForm{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Address: "12 MG Road, Bengaluru",
		Date:    "2026-11-02",
		Time:    "10:30",
		Notes:   "Ring the bell twice",
	}
}
