package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/middleware"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/honeyhomes/honey-homes-api/utils"
	"github.com/sirupsen/logrus"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// requireSession returns the caller's session or writes a 401.
func requireSession(c *gin.Context) (*services.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":        "UNAUTHORIZED",
				"message":     "Please login to continue",
				"redirect_to": "/",
			},
		})
		return nil, false
	}
	return session, true
}

// serviceErrors maps sentinel errors to status and code.
var serviceErrors = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password. Please try again."},
	{services.ErrAlreadyRegistered, http.StatusConflict, "ALREADY_REGISTERED", "This email is already registered. Please login instead."},
	{services.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "User not found"},
	{services.ErrServiceNotFound, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found"},
	{services.ErrCartItemNotFound, http.StatusNotFound, "CART_ITEM_NOT_FOUND", "Cart item not found"},
	{services.ErrCartEmpty, http.StatusBadRequest, "CART_EMPTY", "Your cart is empty"},
	{services.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found"},
	{services.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS", "Invalid order status"},
	{services.ErrStatusNotAllowed, http.StatusBadRequest, "INVALID_STATUS", "Technicians may only set confirmed, in_progress or completed"},
	{services.ErrIllegalTransition, http.StatusConflict, "ILLEGAL_TRANSITION", "This status change is not allowed"},
	{services.ErrNotATechnician, http.StatusBadRequest, "INVALID_TECHNICIAN", "Orders can only be assigned to technicians"},
	{services.ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE", "Role must be customer, technician or admin"},
	{services.ErrSelfRoleChange, http.StatusBadRequest, "SELF_ROLE_CHANGE", "You cannot change your own role"},
}

// respondServiceError writes the response for an error returned by the
// services package. Unknown errors are logged and reported generically.
func respondServiceError(c *gin.Context, err error, fallbackMessage string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			respondError(c, m.status, m.code, m.message)
			return
		}
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": verr.Message,
				"details": gin.H{"field": verr.Field},
			},
		})
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error(fallbackMessage)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", fallbackMessage)
}
