package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestUser is a signed-up user with a usable bearer token.
type TestUser struct {
	ID    string
	Email string
	Token string
}

// Response is the decoded API envelope.
type Response struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Error      map[string]interface{} `json:"error"`
	Pagination map[string]interface{} `json:"pagination"`
}

// DataInto decodes the data field into v.
func (r *Response) DataInto(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

// ErrorCode returns error.code or "".
func (r *Response) ErrorCode() string {
	code, _ := r.Error["code"].(string)
	return code
}

// DoJSON sends a JSON request through the router and decodes the envelope.
func DoJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (int, *Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := &Response{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp), "body: %s", w.Body.String())
	}
	return w.Code, resp
}

// SignUp registers a user through the API and returns its token.
func SignUp(t *testing.T, router *gin.Engine, email, fullName string) TestUser {
	t.Helper()

	status, resp := DoJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": fullName,
		"phone":     "9876543210",
	})
	require.Equal(t, http.StatusCreated, status, "signup failed: %+v", resp.Error)

	var data struct {
		Token string `json:"access_token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	resp.DataInto(t, &data)
	return TestUser{ID: data.User.ID, Email: data.User.Email, Token: data.Token}
}

// SignUpWithRole registers a user and sets their role directly in the
// database. Roles are read per request, so the token stays valid.
func SignUpWithRole(t *testing.T, router *gin.Engine, db *gorm.DB, email string, role models.Role) TestUser {
	t.Helper()

	user := SignUp(t, router, email, "Test "+string(role))
	if role != models.RoleCustomer {
		require.NoError(t, db.Model(&models.UserRole{}).
			Where("user_id = ?", user.ID).
			Update("role", role).Error)
	}
	return user
}

// BookingBody is a valid booking form for service.
func BookingBody(serviceID string) map[string]interface{} {
	return map[string]interface{}{
		"service_id": serviceID,
		"name":       "Asha Rao",
		"phone":      "9876543210",
		"address":    "12 MG Road, Bengaluru",
		"date":       "2026-11-02",
		"time":       "10:30",
		"notes":      "Please call before arriving",
	}
}

// PNGBytes is the header of a 1x1 PNG, enough for content sniffing.
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// NewAvatarRequest builds a multipart POST with content in the "file" field.
func NewAvatarRequest(t *testing.T, url, token, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.RequestURI = ""
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Decode reads the API envelope from an HTTP response body.
func Decode(t *testing.T, body io.Reader) *Response {
	t.Helper()

	resp := &Response{}
	require.NoError(t, json.NewDecoder(body).Decode(resp))
	return resp
}
