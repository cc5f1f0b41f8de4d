package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerStartup verifies the full router can be built
func TestServerStartup(t *testing.T) {
	router := setupRouter(t)
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance is an end-to-end check over a real listener
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "Health endpoint should return 200 OK")
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Response should be valid JSON")
	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, "Honey Homes API is running", response.Message)
}

// TestHealthEndpointAvailability checks the endpoint answers quickly and repeatedly
func TestHealthEndpointAvailability(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()

	client := &http.Client{Timeout: 2 * time.Second}
	for i := 0; i < 10; i++ {
		start := time.Now()
		resp, err := client.Get(server.URL + "/api/v1/health")
		require.NoError(t, err, fmt.Sprintf("request %d should succeed", i))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Less(t, time.Since(start), time.Second, "health check should respond within a second")
	}
}
