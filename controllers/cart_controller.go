package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/services"
)

// AddCartItemRequest represents the request body for adding to the cart
type AddCartItemRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
}

// BookingFormRequest is the contact and scheduling part of a booking
type BookingFormRequest struct {
	Name    string `json:"name" binding:"required,notblank"`
	Phone   string `json:"phone" binding:"required,phone10"`
	Address string `json:"address" binding:"required,notblank"`
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Time    string `json:"time" binding:"required,datetime=15:04"`
	Notes   string `json:"notes"`
}

func (r BookingFormRequest) form() services.BookingForm {
	return services.BookingForm{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
		Date:    r.Date,
		Time:    r.Time,
		Notes:   r.Notes,
	}
}

func newCartService() *services.CartService {
	return services.NewCartService(config.GetDB())
}

// GetCart handles GET /api/v1/cart
func GetCart(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	summary, err := newCartService().List(c.Request.Context(), session.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// AddCartItem handles POST /api/v1/cart/items
func AddCartItem(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	summary, err := newCartService().Add(c.Request.Context(), session.UserID, req.ServiceID)
	if err != nil {
		respondServiceError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Added to cart",
		"data":    summary,
	})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id
func RemoveCartItem(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	summary, err := newCartService().Remove(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from cart",
		"data":    summary,
	})
}

// ClearCart handles DELETE /api/v1/cart
func ClearCart(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	if err := newCartService().Clear(c.Request.Context(), session.UserID); err != nil {
		respondServiceError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.Summarize(nil),
	})
}

// Checkout handles POST /api/v1/cart/checkout - one pending order per cart unit
func Checkout(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req BookingFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	orders, err := services.NewBookingService(config.GetDB()).Checkout(c.Request.Context(), session.UserID, req.form())
	if err != nil {
		respondServiceError(c, err, "Failed to check out")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking confirmed! We'll contact you shortly.",
		"data":    orders,
	})
}
