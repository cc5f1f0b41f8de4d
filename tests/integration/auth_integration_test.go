package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/routes"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/honeyhomes/honey-homes-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AuthIntegrationTestSuite covers sign-up, sign-in and session loading
type AuthIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func (suite *AuthIntegrationTestSuite) SetupSuite() {
	testutil.MustSetTestEnvironment(suite.T())
	gin.SetMode(gin.TestMode)
	suite.cfg = testutil.TestConfig()
	config.SetConfig(suite.cfg)
}

func (suite *AuthIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	services.SetEventPublisher(nil)
	suite.router = routes.SetupRouter(suite.T().Context(), suite.cfg)
}

func (suite *AuthIntegrationTestSuite) TearDownTest() {
	testutil.CloseDB(suite.db)
}

func (suite *AuthIntegrationTestSuite) TestSignUpThenSignIn() {
	user := testutil.SignUp(suite.T(), suite.router, "Asha@Example.com", "Asha Rao")
	suite.NotEmpty(user.Token)
	suite.Equal("asha@example.com", user.Email)

	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	suite.Equal(http.StatusOK, status)

	var data struct {
		Token string          `json:"access_token"`
		Role  models.RoleInfo `json:"role"`
	}
	resp.DataInto(suite.T(), &data)
	suite.NotEmpty(data.Token)
	suite.Equal(models.RoleCustomer, data.Role.Role)
	suite.Equal("/dashboard", data.Role.HomePanel)
}

func (suite *AuthIntegrationTestSuite) TestSignUpCreatesProfile() {
	user := testutil.SignUp(suite.T(), suite.router, "ravi@example.com", "Ravi Kumar")

	var profile models.Profile
	suite.Require().NoError(suite.db.First(&profile, "id = ?", user.ID).Error)
	suite.Require().NotNil(profile.FullName)
	suite.Equal("Ravi Kumar", *profile.FullName)
	suite.Require().NotNil(profile.Phone)
	suite.Equal("9876543210", *profile.Phone)
}

func (suite *AuthIntegrationTestSuite) TestSignUpAdminEmail() {
	testutil.SignUp(suite.T(), suite.router, "admin@honeyhomes.test", "Site Admin")

	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    "admin@honeyhomes.test",
		"password": "secret123",
	})
	suite.Equal(http.StatusOK, status)

	var data struct {
		Role models.RoleInfo `json:"role"`
	}
	resp.DataInto(suite.T(), &data)
	suite.Equal(models.RoleAdmin, data.Role.Role)
}

func (suite *AuthIntegrationTestSuite) TestSignUpDuplicate() {
	testutil.SignUp(suite.T(), suite.router, "dup@example.com", "First User")

	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     "DUP@example.com",
		"password":  "another1",
		"full_name": "Second User",
		"phone":     "9123456780",
	})
	suite.Equal(http.StatusConflict, status)
	suite.Equal("ALREADY_REGISTERED", resp.ErrorCode())
}

func (suite *AuthIntegrationTestSuite) TestSignUpValidation() {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"email": "a@b.com", "password": "123", "full_name": "Asha", "phone": "9876543210"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "secret123", "full_name": "Asha", "phone": "9876543210"}},
		{"short name", map[string]string{"email": "a@b.com", "password": "secret123", "full_name": "A", "phone": "9876543210"}},
		{"nine digit phone", map[string]string{"email": "a@b.com", "password": "secret123", "full_name": "Asha", "phone": "987654321"}},
		{"letters in phone", map[string]string{"email": "a@b.com", "password": "secret123", "full_name": "Asha", "phone": "98765abcde"}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			suite.Equal(http.StatusBadRequest, status)
			suite.Equal("VALIDATION_ERROR", resp.ErrorCode())
		})
	}

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	suite.Zero(count)
}

func (suite *AuthIntegrationTestSuite) TestSignInWrongPassword() {
	testutil.SignUp(suite.T(), suite.router, "asha@example.com", "Asha Rao")

	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    "asha@example.com",
		"password": "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, status)
	suite.Equal("INVALID_CREDENTIALS", resp.ErrorCode())
	suite.Equal("Invalid email or password. Please try again.", resp.Error["message"])
}

func (suite *AuthIntegrationTestSuite) TestGetMe() {
	user := testutil.SignUp(suite.T(), suite.router, "asha@example.com", "Asha Rao")

	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/me", user.Token, nil)
	suite.Equal(http.StatusOK, status)

	var data struct {
		ID      string          `json:"id"`
		Email   string          `json:"email"`
		Role    models.RoleInfo `json:"role"`
		Profile models.Profile  `json:"profile"`
	}
	resp.DataInto(suite.T(), &data)
	suite.Equal(user.ID, data.ID)
	suite.Equal(models.RoleCustomer, data.Role.Role)
	suite.Equal(user.ID, data.Profile.ID)
}

func (suite *AuthIntegrationTestSuite) TestMeRequiresToken() {
	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/me", "", nil)
	suite.Equal(http.StatusUnauthorized, status)
	suite.Equal("UNAUTHORIZED", resp.ErrorCode())
	suite.Equal("/", resp.Error["redirect_to"])

	status, resp = testutil.DoJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/me", "garbage.token.value", nil)
	suite.Equal(http.StatusUnauthorized, status)
	suite.Equal("INVALID_TOKEN", resp.ErrorCode())
}

func (suite *AuthIntegrationTestSuite) TestRoleChangeTakesEffectImmediately() {
	user := testutil.SignUp(suite.T(), suite.router, "tech@example.com", "Tara Tech")

	status, _ := testutil.DoJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/technician/orders", user.Token, nil)
	suite.Equal(http.StatusForbidden, status)

	suite.Require().NoError(suite.db.Model(&models.UserRole{}).
		Where("user_id = ?", user.ID).Update("role", models.RoleTechnician).Error)

	// Same token, new role
	status, _ = testutil.DoJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/technician/orders", user.Token, nil)
	suite.Equal(http.StatusOK, status)
}

func (suite *AuthIntegrationTestSuite) TestDeletedUserTokenRejected() {
	user := testutil.SignUp(suite.T(), suite.router, "gone@example.com", "Gone User")
	suite.Require().NoError(suite.db.Delete(&models.User{}, "id = ?", user.ID).Error)

	status, resp := testutil.DoJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/me", user.Token, nil)
	suite.Equal(http.StatusUnauthorized, status)
	suite.Equal("INVALID_TOKEN", resp.ErrorCode())
}

func (suite *AuthIntegrationTestSuite) TestSignInRateLimited() {
	cfg := *suite.cfg
	cfg.AuthRateLimit = 0.001
	cfg.AuthRateBurst = 2
	router := routes.SetupRouter(suite.T().Context(), &cfg)

	body := map[string]string{"email": "nobody@example.com", "password": "secret123"}
	for i := 0; i < 2; i++ {
		status, _ := testutil.DoJSON(suite.T(), router, http.MethodPost, "/api/v1/auth/signin", "", body)
		suite.Equal(http.StatusUnauthorized, status)
	}

	status, resp := testutil.DoJSON(suite.T(), router, http.MethodPost, "/api/v1/auth/signin", "", body)
	suite.Equal(http.StatusTooManyRequests, status)
	suite.Equal("RATE_LIMITED", resp.ErrorCode())
}

func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
