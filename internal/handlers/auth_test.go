package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
)

func TestLoginSetsHTTPOnlyCookie(t *testing.T) {
	router, _ := setupTest(t)

	rec := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    "admin",
		"password": "admin123",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "admin", user["login"])
	assert.Equal(t, float64(constants.RoleManager), user["role_id"])

	var found *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == constants.AccessTokenCookie {
			found = cookie
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, found.SameSite)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := setupTest(t)

	rec := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    "admin",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    "nobody",
		"password": "admin123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsTokenClaims(t *testing.T) {
	router, _ := setupTest(t)
	cookie := loginAsManager(t, router)

	rec := doJSON(router, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "admin", body["login"])
	assert.Equal(t, "Manager", body["role_name"])
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _ := setupTest(t)

	rec := doJSON(router, http.MethodGet, "/api/defects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/auth/me", nil, &http.Cookie{
		Name:  constants.AccessTokenCookie,
		Value: "tampered",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerHeaderFallback(t *testing.T) {
	router, _ := setupTest(t)
	cookie := loginAsManager(t, router)

	// Same token accepted via the Authorization header.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterEnforcesRoleCapAndUniqueness(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)

	rec := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"login":        "engineer1",
		"display_name": "Engineer One",
		"password":     "password123",
		"role_id":      constants.RoleEngineer,
	}, manager)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate login rejected.
	rec = doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"login":        "engineer1",
		"display_name": "Someone Else",
		"password":     "password123",
		"role_id":      constants.RoleObserver,
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No role sits above Manager, so any higher id violates the role cap.
	rec = doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"login":        "superuser",
		"display_name": "Super User",
		"password":     "password123",
		"role_id":      99,
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-managers never reach the handler.
	engineer := loginAs(t, router, "engineer1", "password123")
	rec = doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"login":        "observer1",
		"display_name": "Observer One",
		"password":     "password123",
		"role_id":      constants.RoleObserver,
	}, engineer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)

	rec := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"login":        "shorty",
		"display_name": "Short Password",
		"password":     "abc",
		"role_id":      constants.RoleObserver,
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	router, _ := setupTest(t)
	cookie := loginAsManager(t, router)

	rec := doJSON(router, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == constants.AccessTokenCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
