package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/honeyhomes/honey-homes-api/utils"
)

// AssignTechnicianRequest represents an assignment
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id" binding:"required"`
}

// UpdateRoleRequest represents a role change
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func newUserService() *services.UserService {
	return services.NewUserService(config.GetDB())
}

// ListAllOrders handles GET /api/v1/admin/orders?status=&page=&limit=
func ListAllOrders(c *gin.Context) {
	filter := services.OrderFilter{}
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseOrderStatus(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid order status")
			return
		}
		filter.Status = status
	}

	page, limit := utils.ParsePagination(c)
	filter.Offset = utils.Offset(page, limit)
	filter.Limit = limit

	orders, total, err := newOrderService().ListAll(c.Request.Context(), filter)
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

// AdminUpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func AdminUpdateOrderStatus(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	order, err := newOrderService().UpdateStatusAsAdmin(c.Request.Context(), session.UserID, c.Param("id"), req.Status)
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

// AssignTechnician handles PATCH /api/v1/admin/orders/:id/assign
func AssignTechnician(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	order, err := newOrderService().AssignTechnician(c.Request.Context(), session.UserID, c.Param("id"), req.TechnicianID)
	if err != nil {
		respondServiceError(c, err, "Failed to assign technician")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Technician assigned",
		"data":    withStatusLabel(*order),
	})
}

// ListTechnicians handles GET /api/v1/admin/technicians
func ListTechnicians(c *gin.Context) {
	techs, err := newUserService().ListTechnicians(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve technicians")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    techs,
	})
}

// ListUsers handles GET /api/v1/admin/users
func ListUsers(c *gin.Context) {
	users, err := newUserService().ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// UpdateUserRole handles PATCH /api/v1/admin/users/:id/role
func UpdateUserRole(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := newUserService().SetRole(c.Request.Context(), session.UserID, c.Param("id"), req.Role)
	if err != nil {
		respondServiceError(c, err, "Failed to update role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role updated",
		"data":    user,
	})
}

// GetStats handles GET /api/v1/admin/stats
func GetStats(c *gin.Context) {
	stats, err := newOrderService().Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
