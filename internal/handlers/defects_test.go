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

func TestCreateDefectWritesCreationTrail(t *testing.T) {
	router, db := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")

	defectID := createDefect(t, router, manager, projectID, "Invoice total off by one", nil)

	var rows []models.DefectHistory
	require.NoError(t, db.Where("defect_id = ?", defectID).Order("id").Find(&rows).Error)
	require.GreaterOrEqual(t, len(rows), 5)

	assert.Equal(t, "Defect", rows[0].FieldName)
	assert.Equal(t, "Created", rows[0].NewValue)
	assert.Empty(t, rows[0].OldValue)

	// Initial field rows share the marker's timestamp and actor.
	for _, row := range rows[1:] {
		assert.Equal(t, rows[0].ChangeDate, row.ChangeDate)
		assert.Equal(t, rows[0].UserID, row.UserID)
		assert.Empty(t, row.OldValue)
	}
}

func TestCreateDefectValidation(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")

	rec := doJSON(router, http.MethodPost, "/api/defects", gin.H{
		"project_id": projectID,
		"name":       "No priority",
		"priority":   0,
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodPost, "/api/defects", gin.H{
		"project_id": projectID,
		"priority":   1,
	}, manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDefectAppendsFieldRows(t *testing.T) {
	router, db := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Invoice total off by one", nil)

	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/defects/%d", defectID), gin.H{
		"priority":  3,
		"status_id": constants.StatusInProgress,
	}, manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []models.DefectHistory
	require.NoError(t, db.
		Where("defect_id = ? AND field_name = ?", defectID, "Priority").
		Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].OldValue)
	assert.Equal(t, "3", rows[0].NewValue)

	require.NoError(t, db.
		Where("defect_id = ? AND field_name = ?", defectID, "StatusId").
		Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].OldValue)
	assert.Equal(t, "2", rows[0].NewValue)
}

func TestUpdateDefectNoChangesWritesNoRows(t *testing.T) {
	router, db := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Invoice total off by one", nil)

	var before int64
	require.NoError(t, db.Model(&models.DefectHistory{}).
		Where("defect_id = ?", defectID).Count(&before).Error)

	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/defects/%d", defectID), gin.H{
		"priority": 1,
	}, manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after int64
	require.NoError(t, db.Model(&models.DefectHistory{}).
		Where("defect_id = ?", defectID).Count(&after).Error)
	// UpdatedDate moves whenever a save happens, so at most that one row.
	assert.LessOrEqual(t, after-before, int64(1))

	var priorityRows int64
	require.NoError(t, db.Model(&models.DefectHistory{}).
		Where("defect_id = ? AND field_name = ?", defectID, "Priority").
		Count(&priorityRows).Error)
	assert.Zero(t, priorityRows)
}

func TestObserverListOnlySeesAssignedDefects(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)

	assignedID := createDefect(t, router, manager, projectID, "Assigned to observer", &observerID)
	createDefect(t, router, manager, projectID, "Someone else's problem", nil)

	observer := loginAs(t, router, "observer1", "password123")
	rec := doJSON(router, http.MethodGet, "/api/defects", nil, observer)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total_count"])

	defects := body["defects"].([]interface{})
	require.Len(t, defects, 1)
	assert.Equal(t, float64(assignedID), defects[0].(map[string]interface{})["id"])

	// Managers see both.
	rec = doJSON(router, http.MethodGet, "/api/defects", nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["total_count"])
}

func TestObserverSingleFetchForbiddenForUnassigned(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	observerID := registerUser(t, router, "observer1", constants.RoleObserver)

	assignedID := createDefect(t, router, manager, projectID, "Assigned", &observerID)
	otherID := createDefect(t, router, manager, projectID, "Not assigned", nil)

	observer := loginAs(t, router, "observer1", "password123")

	rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects/%d", assignedID), nil, observer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects/%d", otherID), nil, observer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A defect that never existed reports not found, not forbidden.
	rec = doJSON(router, http.MethodGet, "/api/defects/99999", nil, observer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEngineerUpdatesOnlyAssignedDefects(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	engineerID := registerUser(t, router, "engineer1", constants.RoleEngineer)

	mineID := createDefect(t, router, manager, projectID, "Mine", &engineerID)
	othersID := createDefect(t, router, manager, projectID, "Someone else's", nil)

	engineer := loginAs(t, router, "engineer1", "password123")

	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/defects/%d", mineID), gin.H{
		"status_id": constants.StatusInProgress,
	}, engineer)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodPut, fmt.Sprintf("/api/defects/%d", othersID), gin.H{
		"status_id": constants.StatusInProgress,
	}, engineer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestObserverCannotCreateDefects(t *testing.T) {
	router, _ := setupTest(t)
	projectID := createProject(t, router, "Billing")
	registerUser(t, router, "observer1", constants.RoleObserver)

	observer := loginAs(t, router, "observer1", "password123")
	rec := doJSON(router, http.MethodPost, "/api/defects", gin.H{
		"project_id": projectID,
		"name":       "Observer attempt",
		"priority":   1,
	}, observer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteDefectLeavesDeletionMarker(t *testing.T) {
	router, db := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Doomed", nil)

	rec := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/defects/%d", defectID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The defect row is gone.
	var count int64
	require.NoError(t, db.Model(&models.Defect{}).Where("id = ?", defectID).Count(&count).Error)
	assert.Zero(t, count)

	// Its audit trail survives, ending with the deletion marker.
	var rows []models.DefectHistory
	require.NoError(t, db.Where("defect_id = ?", defectID).Order("id").Find(&rows).Error)
	require.NotEmpty(t, rows)

	last := rows[len(rows)-1]
	assert.Equal(t, "Defect", last.FieldName)
	assert.Equal(t, "Exists", last.OldValue)
	assert.Equal(t, "Deleted", last.NewValue)

	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects/%d", defectID), nil, manager)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDefectSucceedsUnderEnforcedForeignKeys(t *testing.T) {
	router, db := setupTestEnforcedFKs(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Doomed", nil)

	// Accumulate trail rows beyond the creation set.
	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/defects/%d", defectID), gin.H{
		"priority": 3,
	}, manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// History rows carry no foreign key to the defect, so the delete
	// must go through even with constraint enforcement on.
	rec = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/defects/%d", defectID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []models.DefectHistory
	require.NoError(t, db.Where("defect_id = ?", defectID).Order("id").Find(&rows).Error)
	require.NotEmpty(t, rows)
	last := rows[len(rows)-1]
	assert.Equal(t, "Defect", last.FieldName)
	assert.Equal(t, "Deleted", last.NewValue)
}

func TestHistoryEndpointReturnsOrderedTrail(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	projectID := createProject(t, router, "Billing")
	defectID := createDefect(t, router, manager, projectID, "Tracked", nil)

	rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/defects/%d", defectID), gin.H{
		"priority": 2,
	}, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects/%d/history", defectID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decodeList(t, rec)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, "Defect", rows[0]["field_name"])
	assert.Equal(t, "Created", rows[0]["new_value"])

	found := false
	for _, row := range rows {
		if row["field_name"] == "Priority" {
			found = true
			assert.Equal(t, "1", row["old_value"])
			assert.Equal(t, "2", row["new_value"])
		}
	}
	assert.True(t, found, "expected a Priority transition row")
}

func TestDefectListFilters(t *testing.T) {
	router, _ := setupTest(t)
	manager := loginAsManager(t, router)
	billingID := createProject(t, router, "Billing")
	frontendID := createProject(t, router, "Frontend")

	createDefect(t, router, manager, billingID, "Billing bug", nil)
	createDefect(t, router, manager, frontendID, "Frontend bug", nil)

	rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/defects?project_id=%d", billingID), nil, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total_count"])
	defects := body["defects"].([]interface{})
	require.Len(t, defects, 1)
	assert.Equal(t, "Billing bug", defects[0].(map[string]interface{})["info"].(map[string]interface{})["defect_name"])
}
