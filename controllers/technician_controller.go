package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/services"
)

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListTechnicianOrders handles GET /api/v1/technician/orders
func ListTechnicianOrders(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	orders, err := newOrderService().ListAssigned(c.Request.Context(), session.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve assigned orders")
		return
	}

	today := time.Now().Format("2006-01-02")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders":  withStatusLabels(orders),
			"summary": services.SummarizeAssigned(orders, today),
		},
	})
}

// UpdateTechnicianOrderStatus handles PATCH /api/v1/technician/orders/:id/status
func UpdateTechnicianOrderStatus(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	order, err := newOrderService().UpdateStatusAsTechnician(c.Request.Context(), session.UserID, c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated",
		"data":    withStatusLabel(*order),
	})
}
