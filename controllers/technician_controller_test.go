package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/middleware"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func technicianRouter(session *services.Session) *gin.Engine {
	router := gin.New()
	tech := router.Group("/technician", mockSessionMiddleware(session), middleware.RequireRole(models.RoleTechnician))
	tech.GET("/orders", ListTechnicianOrders)
	tech.PATCH("/orders/:id/status", UpdateTechnicianOrderStatus)
	return router
}

func TestListTechnicianOrders(t *testing.T) {
	db := setupControllerTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	technician := createTestUser(t, db, "tech@example.com", models.RoleTechnician)
	otherTech := createTestUser(t, db, "tech2@example.com", models.RoleTechnician)

	later := bookOrder(t, db, customer.UserID, "cleaning")
	today := bookOrder(t, db, customer.UserID, "plumbing")
	done := bookOrder(t, db, customer.UserID, "painting")
	elsewhere := bookOrder(t, db, customer.UserID, "food")

	require.NoError(t, db.Model(later).Updates(map[string]interface{}{
		"assigned_technician_id": technician.UserID, "status": models.StatusConfirmed, "scheduled_date": "2099-01-01",
	}).Error)
	require.NoError(t, db.Model(today).Updates(map[string]interface{}{
		"assigned_technician_id": technician.UserID, "status": models.StatusInProgress, "scheduled_date": time.Now().Format("2006-01-02"),
	}).Error)
	require.NoError(t, db.Model(done).Updates(map[string]interface{}{
		"assigned_technician_id": technician.UserID, "status": models.StatusCompleted, "scheduled_date": "2000-01-01",
	}).Error)
	require.NoError(t, db.Model(elsewhere).Update("assigned_technician_id", otherTech.UserID).Error)

	w, response := performRequest(t, technicianRouter(technician), http.MethodGet, "/technician/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	orders := data["orders"].([]interface{})
	require.Len(t, orders, 3)
	assert.Equal(t, done.ID, orders[0].(map[string]interface{})["id"], "ordered by scheduled date")
	assert.Equal(t, later.ID, orders[2].(map[string]interface{})["id"])

	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["active"])
	assert.Equal(t, float64(1), summary["completed"])
	assert.Equal(t, float64(1), summary["today"])
}

func TestUpdateTechnicianOrderStatus(t *testing.T) {
	db := setupControllerTestDB(t)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	technician := createTestUser(t, db, "tech@example.com", models.RoleTechnician)
	otherTech := createTestUser(t, db, "tech2@example.com", models.RoleTechnician)

	order := bookOrder(t, db, customer.UserID, "cleaning")
	require.NoError(t, db.Model(order).Updates(map[string]interface{}{
		"assigned_technician_id": technician.UserID, "status": models.StatusConfirmed,
	}).Error)

	tests := []struct {
		name           string
		session        *services.Session
		status         string
		expectedStatus int
		expectedError  string
	}{
		{"cannot cancel", technician, "cancelled", http.StatusBadRequest, "INVALID_STATUS"},
		{"cannot reset to pending", technician, "pending", http.StatusBadRequest, "INVALID_STATUS"},
		{"unknown status", technician, "paused", http.StatusBadRequest, "INVALID_STATUS"},
		{"not assigned", otherTech, "in_progress", http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"customer blocked", customer, "in_progress", http.StatusForbidden, "ACCESS_DENIED"},
		{"start work", technician, "in_progress", http.StatusOK, ""},
		{"finish work", technician, "completed", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, technicianRouter(tt.session), http.MethodPatch, "/technician/orders/"+order.ID+"/status", map[string]interface{}{"status": tt.status})
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}
			assert.Equal(t, tt.status, response["data"].(map[string]interface{})["status"])
		})
	}
}
