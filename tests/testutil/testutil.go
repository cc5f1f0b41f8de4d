package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	RequireTestEnvironment(t)
}

// TestConfig returns a configuration suitable for router tests. Rate limits
// are generous so suites are not throttled.
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:   "sqlite://memory",
		Port:          "8080",
		GoEnv:         "test",
		LogLevel:      "error",
		JWTSecret:     "integration-test-secret",
		JWTIssuer:     "honey-homes-api",
		JWTAudience:   "honey-homes-web",
		TokenTTL:      time.Hour,
		AdminEmails:   []string{"admin@honeyhomes.test"},
		AuthRateLimit: 1000,
		AuthRateBurst: 1000,
		AWSRegion:     "us-east-1",
	}
}

// NewTestDB opens a migrated in-memory SQLite database and installs it as
// the global connection.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	// Each connection to :memory: would see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")
	config.SetDB(db)
	return db
}

// CloseDB closes the underlying connection pool.
func CloseDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
