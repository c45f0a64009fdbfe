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

func TestAttachmentLifecycle(t *testing.T) {
	router, db := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "With screenshot", nil)

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/attachments", defectID), gin.H{
		"file_name": "screenshot.png",
		"file_path": "/uploads/screenshot.png",
		"file_size": 2048,
	}, manager)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	attachmentID := uint64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects/%d/attachments", defectID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeList(t, rec), 1)

	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/attachments/%d", attachmentID), gin.H{
		"file_name": "screenshot-v2.png",
	}, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "screenshot-v2.png", decodeBody(t, rec)["file_name"])

	rec = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/attachments/%d", attachmentID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	// Hard delete, unlike comments.
	var count int64
	require.NoError(t, db.Model(&models.DefectAttachment{}).Where("id = ?", attachmentID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAttachmentRequiresNameAndPath(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "With screenshot", nil)

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/attachments", defectID), gin.H{
		"file_name": "screenshot.png",
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObserverCannotAttachToUnassignedDefect(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	registerUser(t, router, "observer1", constants.RoleObserver)
	defectID := createDefect(t, router, manager, projectID, "Not theirs", nil)

	observer := loginAs(t, router, "observer1", "password123")
	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/defects/%d/attachments", defectID), gin.H{
		"file_name": "drive-by.png",
		"file_path": "/uploads/drive-by.png",
	}, observer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
