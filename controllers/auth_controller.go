package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/metrics"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/sirupsen/logrus"
)

// SignUpRequest represents the sign-up form
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,notblank,min=2,max=100"`
	Phone    string `json:"phone" binding:"required,phone10"`
}

// SignInRequest represents the sign-in form
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func newAuthService() *services.AuthService {
	return services.NewAuthService(config.GetDB(), config.GetConfig())
}

// SignUp handles POST /api/v1/auth/signup
func SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", "invalid").Inc()
		respondValidationError(c, err)
		return
	}

	result, err := newAuthService().SignUp(c.Request.Context(), services.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		respondServiceError(c, err, "Failed to create account")
		return
	}

	metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
	logrus.WithField("user_id", result.User.ID).Info("User signed up")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// SignIn handles POST /api/v1/auth/signin
func SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthAttempts.WithLabelValues("signin", "invalid").Inc()
		respondValidationError(c, err)
		return
	}

	result, err := newAuthService().SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("signin", "failure").Inc()
		respondServiceError(c, err, "Failed to sign in")
		return
	}

	metrics.AuthAttempts.WithLabelValues("signin", "success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// SignOut handles POST /api/v1/auth/signout. Tokens are stateless, so the
// client discards its token; the server only records the event.
func SignOut(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	logrus.WithField("user_id", session.UserID).Info("User signed out")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}

// GetMe handles GET /api/v1/me - the current user, their role and profile
func GetMe(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	profile, err := services.NewProfileService(config.GetDB()).Get(c.Request.Context(), session.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      session.UserID,
			"email":   session.Email,
			"role":    session.Role.Info(),
			"profile": profile,
		},
	})
}
