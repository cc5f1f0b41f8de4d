package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// developmentJWTSecret is only accepted outside production.
const developmentJWTSecret = "dev-secret-change-me"

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	LogLevel           string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	TokenTTL           time.Duration
	AdminEmails        []string
	CORSAllowedOrigins []string
	AuthRateLimit      float64
	AuthRateBurst      int
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AvatarPublicURL    string
	UploadDir          string
	NATSURL            string

	// EnforceStatusTransitions rejects order status changes the lifecycle
	// does not allow. Off by default: any permitted role may set any status.
	EnforceStatusTransitions bool
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production environment variables are set directly
			logrus.Debug("No .env file found, using system environment variables")
		}
	} else {
		logrus.WithField("file", envFile).Info("Loaded configuration")
	}

	ttl, err := getEnvDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvFloat("AUTH_RATE_LIMIT", 1)
	if err != nil {
		return nil, err
	}
	rateBurst, err := getEnvInt("AUTH_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}

	config := &Config{
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		Port:                     getEnv("PORT", "8080"),
		GoEnv:                    getEnv("GO_ENV", "development"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		JWTIssuer:                getEnv("JWT_ISSUER", "honey-homes-api"),
		JWTAudience:              getEnv("JWT_AUDIENCE", "honey-homes-web"),
		TokenTTL:                 ttl,
		AdminEmails:              getEnvList("ADMIN_EMAILS"),
		CORSAllowedOrigins:       getEnvList("CORS_ALLOWED_ORIGINS"),
		AuthRateLimit:            rateLimit,
		AuthRateBurst:            rateBurst,
		AWSRegion:                getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:              getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:           getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AvatarPublicURL:          getEnv("AVATAR_PUBLIC_BASE_URL", ""),
		UploadDir:                getEnv("UPLOAD_DIR", "./uploads"),
		NATSURL:                  getEnv("NATS_URL", ""),
		EnforceStatusTransitions: getEnvBool("ENFORCE_STATUS_TRANSITIONS", false),
	}

	if config.JWTSecret == "" && !config.IsProduction() {
		config.JWTSecret = developmentJWTSecret
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.IsProduction() && c.JWTSecret == developmentJWTSecret {
		return fmt.Errorf("JWT_SECRET must not use the development default in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether avatars go to S3 rather than local disk.
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// IsAdminEmail reports whether sign-ups with this email start as admins.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if strings.ToLower(admin) == email {
			return true
		}
	}
	return false
}

// String returns a printable form with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %s, S3: %t, NATS: %t, JWT: *** (masked) ***}",
		c.GoEnv, c.Port, c.UsesS3(), c.NATSURL != "")
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (used by main and tests)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
