package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

func TestListUsersIncludesSeededManager(t *testing.T) {
	router, _ := setupTest(t)
	cookie := loginAsManager(t, router)

	rec := doJSON(router, http.MethodGet, "/api/users", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	users := decodeList(t, rec)
	require.NotEmpty(t, users)
	assert.Equal(t, "admin", users[0]["login"])
}

func TestUserUpdatesOwnProfileOnly(t *testing.T) {
	router, _ := setupTest(t)
	engineerID := registerUser(t, router, "engineer1", constants.RoleEngineer)
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)

	engineer := loginAs(t, router, "engineer1", "password123")

	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/users/%d", engineerID), gin.H{
		"display_name": "Engineer Prime",
	}, engineer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Engineer Prime", decodeBody(t, rec)["display_name"])

	// Someone else's profile is off limits.
	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/users/%d", observerID), gin.H{
		"display_name": "Hijacked",
	}, engineer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// And so is their own role.
	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/users/%d", engineerID), gin.H{
		"role_id": constants.RoleManager,
	}, engineer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateUserRejectsTakenLogin(t *testing.T) {
	router, _ := setupTest(t)
	registerUser(t, router, "engineer1", constants.RoleEngineer)
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)

	manager := loginAsManager(t, router)
	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/users/%d", observerID), gin.H{
		"login": "engineer1",
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUserRules(t *testing.T) {
	router, _ := setupTest(t)
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)
	registerUser(t, router, "engineer1", constants.RoleEngineer)

	manager := loginAsManager(t, router)

	// Managers cannot delete themselves. The seeded manager is user 1.
	rec := doJSON(router, http.MethodDelete, "/api/users/1", nil, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-managers are stopped at the gate.
	engineer := loginAs(t, router, "engineer1", "password123")
	rec = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/users/%d", observerID), nil, engineer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Managers may delete others.
	rec = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/users/%d", observerID), nil, manager)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/users/%d", observerID), nil, manager)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteResponsibleUserUnassignsDefects(t *testing.T) {
	router, db := setupTestEnforcedFKs(t)
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)

	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Orphaned assignment", &observerID)

	rec := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/users/%d", observerID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The responsible link is severed at the database level, not the row.
	var defect models.Defect
	require.NoError(t, db.First(&defect, defectID).Error)
	assert.Nil(t, defect.ResponsibleID)
}
