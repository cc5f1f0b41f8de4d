package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/honeyhomes/honey-homes-api/utils"
)

// CreateOrderRequest represents the request body for booking a service
type CreateOrderRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	BookingFormRequest
}

func newOrderService() *services.OrderService {
	return services.NewOrderService(config.GetDB(), config.GetConfig().EnforceStatusTransitions)
}

// CreateOrder handles POST /api/v1/orders - books one service (customers only)
func CreateOrder(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	order, err := services.NewBookingService(config.GetDB()).Book(c.Request.Context(), session.UserID, req.ServiceID, req.form())
	if err != nil {
		respondServiceError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking confirmed! We'll contact you shortly.",
		"data":    order,
	})
}

// ListMyOrders handles GET /api/v1/orders - the caller's orders, newest first
func ListMyOrders(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	page, limit := utils.ParsePagination(c)
	orders, total, err := newOrderService().ListForCustomer(c.Request.Context(), session.UserID, utils.Offset(page, limit), limit)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       withStatusLabels(orders),
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// GetMyOrder handles GET /api/v1/orders/:id
func GetMyOrder(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	order, err := newOrderService().GetForCustomer(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withStatusLabel(*order),
	})
}
