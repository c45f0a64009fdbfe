package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vkotelnikov/defect-tracking-api/internal/config"
	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/database"
)

// setupTest builds a router backed by a fresh in-memory database with the
// reference data and the default manager account seeded.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	return setupTestDSN(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
}

// setupTestEnforcedFKs is setupTest with sqlite foreign key enforcement
// switched on, matching what postgres always does in production.
func setupTestEnforcedFKs(t *testing.T) (*gin.Engine, *gorm.DB) {
	return setupTestDSN(t, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name()))
}

func setupTestDSN(t *testing.T, dsn string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.EnsureDefaultManager(db))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}

	return SetupRouter(db, cfg), db
}

func doJSON(router http.Handler, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// loginAs authenticates and returns the access token cookie.
func loginAs(t *testing.T, router http.Handler, login, password string) *http.Cookie {
	t.Helper()

	rec := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    login,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == constants.AccessTokenCookie {
			return cookie
		}
	}
	t.Fatal("login response did not set the access token cookie")
	return nil
}

func loginAsManager(t *testing.T, router http.Handler) *http.Cookie {
	return loginAs(t, router, "admin", "admin123")
}

// registerUser creates a user through the API as the default manager and
// returns its ID.
func registerUser(t *testing.T, router http.Handler, login string, roleID uint64) uint64 {
	t.Helper()

	manager := loginAsManager(t, router)
	rec := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"login":        login,
		"display_name": login,
		"password":     "password123",
		"role_id":      roleID,
	}, manager)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	return uint64(body["id"].(float64))
}

// createProject creates a project through the API as the default manager.
func createProject(t *testing.T, router http.Handler, name string) uint64 {
	t.Helper()

	manager := loginAsManager(t, router)
	rec := doJSON(router, http.MethodPost, "/api/projects", gin.H{
		"name": name,
	}, manager)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	return uint64(body["id"].(float64))
}

// createDefect creates a defect through the API with the given cookie.
func createDefect(t *testing.T, router http.Handler, cookie *http.Cookie, projectID uint64, name string, responsibleID *uint64) uint64 {
	t.Helper()

	payload := gin.H{
		"project_id": projectID,
		"name":       name,
		"priority":   1,
	}
	if responsibleID != nil {
		payload["responsible_id"] = *responsibleID
	}

	rec := doJSON(router, http.MethodPost, "/api/defects", payload, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	return uint64(body["id"].(float64))
}
