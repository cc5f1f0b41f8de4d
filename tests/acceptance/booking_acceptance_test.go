package acceptance

import (
	"net/http"

	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/services"
)

// TestCustomerJourney follows a customer from sign-up to a completed job
func (suite *HoneyHomesAcceptanceTestSuite) TestCustomerJourney() {
	customer := suite.signUp("meera@example.com", "Meera Nair", models.RoleCustomer)
	technician := suite.signUp("tech@honeyhomes.test", "Vikram Tech", models.RoleTechnician)
	admin := suite.signUp("ops@honeyhomes.test", "Ops Admin", models.RoleAdmin)

	// Sign in again and land on the customer panel
	status, resp := suite.makeRequest(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    "meera@example.com",
		"password": "secret123",
	})
	suite.Require().Equal(http.StatusOK, status)
	var signIn struct {
		Token string          `json:"access_token"`
		Role  models.RoleInfo `json:"role"`
	}
	resp.DataInto(suite.T(), &signIn)
	suite.Equal("/dashboard", signIn.Role.HomePanel)
	token := signIn.Token

	// Fill the cart
	for _, id := range []string{"cleaning", "plumbing"} {
		status, _ = suite.makeRequest(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"service_id": id})
		suite.Require().Equal(http.StatusOK, status)
	}
	status, resp = suite.makeRequest(http.MethodGet, "/api/v1/cart", token, nil)
	suite.Require().Equal(http.StatusOK, status)
	var cart services.CartSummary
	resp.DataInto(suite.T(), &cart)
	suite.Equal(2, cart.CartCount)
	suite.EqualValues(498, cart.CartTotal)

	// Check out
	status, resp = suite.makeRequest(http.MethodPost, "/api/v1/cart/checkout", token, map[string]string{
		"name":    "Meera Nair",
		"phone":   "9812345678",
		"address": "4 Lake View, Kochi",
		"date":    "2026-12-01",
		"time":    "09:00",
	})
	suite.Require().Equal(http.StatusCreated, status, "%+v", resp.Error)
	suite.Equal("Booking confirmed! We'll contact you shortly.", resp.Message)
	var orders []models.ServiceOrder
	resp.DataInto(suite.T(), &orders)
	suite.Require().Len(orders, 2)
	suite.Nil(orders[0].Notes)

	// Admin assigns the cleaning job
	var cleaning models.ServiceOrder
	for _, o := range orders {
		if o.ServiceID == "cleaning" {
			cleaning = o
		}
	}
	status, _ = suite.makeRequest(http.MethodPatch, "/api/v1/admin/orders/"+cleaning.ID+"/assign", admin.Token, map[string]string{
		"technician_id": technician.ID,
	})
	suite.Require().Equal(http.StatusOK, status)

	// Technician works through it
	for _, next := range []string{"in_progress", "completed"} {
		status, resp = suite.makeRequest(http.MethodPatch, "/api/v1/technician/orders/"+cleaning.ID+"/status", technician.Token, map[string]string{
			"status": next,
		})
		suite.Require().Equal(http.StatusOK, status, "%+v", resp.Error)
	}

	// Customer sees the result
	status, resp = suite.makeRequest(http.MethodGet, "/api/v1/orders/"+cleaning.ID, customer.Token, nil)
	suite.Require().Equal(http.StatusOK, status)
	var seen models.ServiceOrder
	resp.DataInto(suite.T(), &seen)
	suite.Equal(models.StatusCompleted, seen.Status)

	// Admin stats reflect the completed job
	status, resp = suite.makeRequest(http.MethodGet, "/api/v1/admin/stats", admin.Token, nil)
	suite.Require().Equal(http.StatusOK, status)
	var stats services.OrderStats
	resp.DataInto(suite.T(), &stats)
	suite.EqualValues(2, stats.TotalOrders)
	suite.EqualValues(1, stats.OrdersByStatus["completed"])
	suite.EqualValues(1, stats.OrdersByStatus["pending"])
	suite.EqualValues(299, stats.Revenue)
}

// TestRoleGates checks each panel turns away the wrong roles
func (suite *HoneyHomesAcceptanceTestSuite) TestRoleGates() {
	customer := suite.signUp("c@example.com", "Cara Customer", models.RoleCustomer)
	technician := suite.signUp("t@example.com", "Tom Tech", models.RoleTechnician)

	tests := []struct {
		name       string
		path       string
		token      string
		status     int
		redirectTo string
	}{
		{"anonymous admin", "/api/v1/admin/orders", "", http.StatusUnauthorized, "/"},
		{"customer admin", "/api/v1/admin/orders", customer.Token, http.StatusForbidden, "/dashboard"},
		{"technician admin", "/api/v1/admin/users", technician.Token, http.StatusForbidden, "/technician"},
		{"customer technician", "/api/v1/technician/orders", customer.Token, http.StatusForbidden, "/dashboard"},
		{"technician own panel", "/api/v1/technician/orders", technician.Token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			status, resp := suite.makeRequest(http.MethodGet, tt.path, tt.token, nil)
			suite.Equal(tt.status, status)
			if tt.redirectTo != "" {
				suite.Equal(tt.redirectTo, resp.Error["redirect_to"])
			}
		})
	}
}

// TestAvatarUpload uploads an avatar as the profile dialog does
func (suite *HoneyHomesAcceptanceTestSuite) TestAvatarUpload() {
	user := suite.signUp("avatar@example.com", "Anu Avatar", models.RoleCustomer)

	req := newAvatarRequest(suite, suite.server.URL+"/api/v1/profile/avatar", user.Token)
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	status, body := suite.makeRequest(http.MethodGet, "/api/v1/profile", user.Token, nil)
	suite.Require().Equal(http.StatusOK, status)
	var profile models.Profile
	body.DataInto(suite.T(), &profile)
	suite.Require().NotNil(profile.AvatarURL)
	suite.Contains(*profile.AvatarURL, user.ID)
	suite.Len(suite.mockS3.GetUploadedFiles(), 1)
}
