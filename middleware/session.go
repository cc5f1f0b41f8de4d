package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// LoadSession resolves the caller's role from user_roles on every request
// that carries a valid token. It runs after EnsureValidToken.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.Next()
			return
		}

		auth := services.NewAuthService(config.GetDB(), config.GetConfig())
		session, err := auth.LoadSession(c.Request.Context(), userID)
		if errors.Is(err, services.ErrUserNotFound) {
			abortUnauthorized(c, "INVALID_TOKEN", "Your session has expired. Please login again.")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load session",
				},
			})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// SetSession stores a session directly (used by tests that skip tokens).
func SetSession(c *gin.Context, session *services.Session) {
	c.Set("user_id", session.UserID)
	c.Set(sessionKey, session)
}

// GetSession returns the session loaded for this request, if any.
func GetSession(c *gin.Context) (*services.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*services.Session)
	return session, ok && session != nil
}

// RequireAuth rejects anonymous requests with message.
func RequireAuth(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			abortUnauthorized(c, "UNAUTHORIZED", message)
			return
		}
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of
// roles. The check happens before any handler so denied callers never
// trigger a data fetch.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			abortUnauthorized(c, "UNAUTHORIZED", "Please login to continue")
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		message := "Access denied."
		if len(roles) > 0 {
			message = roles[0].Info().DeniedMessage
		}
		logrus.WithFields(logrus.Fields{
			"user_id": session.UserID,
			"role":    session.Role,
			"path":    c.Request.URL.Path,
		}).Info("Role check denied request")

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":        "ACCESS_DENIED",
				"message":     message,
				"redirect_to": session.Role.Info().HomePanel,
			},
		})
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":        code,
			"message":     message,
			"redirect_to": "/",
		},
	})
}
