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

func TestCommentLifecycle(t *testing.T) {
	router, db := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Commented", nil)

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/comments", defectID), gin.H{
		"text": "Reproduced on staging",
	}, manager)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commentID := uint64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/%d", commentID), gin.H{
		"text": "Reproduced on staging and production",
	}, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reproduced on staging and production", decodeBody(t, rec)["text"])

	rec = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	// Soft delete: the row survives but is flagged.
	var comment models.Comment
	require.NoError(t, db.First(&comment, commentID).Error)
	assert.True(t, comment.IsDeleted)

	// Deleted comments disappear from listings.
	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects/%d/comments", defectID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))

	// And cannot be edited again.
	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/%d", commentID), gin.H{
		"text": "Necromancy",
	}, manager)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentRejectsEmptyText(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Commented", nil)

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/comments", defectID), gin.H{
		"text": "   ",
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObserverCommentsOnlyOnOwnDefects(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)

	mineID := createDefect(t, router, manager, projectID, "Mine", &observerID)
	othersID := createDefect(t, router, manager, projectID, "Not mine", nil)

	observer := loginAs(t, router, "observer1", "password123")

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/comments", mineID), gin.H{
		"text": "Still happening",
	}, observer)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/comments", othersID), gin.H{
		"text": "Drive-by comment",
	}, observer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEngineerEditsOnlyOwnComments(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	registerUser(t, router, "engineer1", constants.RoleEngineer)
	defectID := createDefect(t, router, manager, projectID, "Discussed", nil)

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/comments", defectID), gin.H{
		"text": "Manager's note",
	}, manager)
	require.Equal(t, http.StatusCreated, rec.Code)
	managerCommentID := uint64(decodeBody(t, rec)["id"].(float64))

	engineer := loginAs(t, router, "engineer1", "password123")

	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/%d", managerCommentID), gin.H{
		"text": "Rewriting someone else's words",
	}, engineer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Their own comment is fair game.
	rec = doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/comments", defectID), gin.H{
		"text": "Engineer's note",
	}, engineer)
	require.Equal(t, http.StatusCreated, rec.Code)
	ownID := uint64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/comments/%d", ownID), gin.H{
		"text": "Engineer's updated note",
	}, engineer)
	assert.Equal(t, http.StatusOK, rec.Code)
}
