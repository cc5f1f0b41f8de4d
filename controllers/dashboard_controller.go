package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/services"
)

// GetDashboard handles GET /api/v1/dashboard - role entry, cart and own orders
func GetDashboard(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	cart, err := newCartService().List(ctx, session.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load cart")
		return
	}

	orders, _, err := newOrderService().ListForCustomer(ctx, session.UserID, 0, 0)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve orders")
		return
	}

	profile, err := services.NewProfileService(config.GetDB()).Get(ctx, session.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"role":    session.Role.Info(),
			"profile": profile,
			"cart":    cart,
			"orders":  withStatusLabels(orders),
		},
	})
}
