package dto

import (
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// InfoDTO represents the descriptive payload of a defect
type InfoDTO struct {
	ID                uint64     `json:"id"`
	DefectName        string     `json:"defect_name"`
	DefectDescription string     `json:"defect_description"`
	Priority          int16      `json:"priority"`
	DueDate           *time.Time `json:"due_date"`
	StatusChangeDate  time.Time  `json:"status_change_date"`
}

// DefectDTO represents a defect in API responses
type DefectDTO struct {
	ID              uint64    `json:"id"`
	ProjectID       uint64    `json:"project_id"`
	StatusID        uint64    `json:"status_id"`
	InfoID          uint64    `json:"info_id"`
	ResponsibleID   *uint64   `json:"responsible_id"`
	CreatedByID     uint64    `json:"created_by_id"`
	CreatedDate     time.Time `json:"created_date"`
	UpdatedDate     time.Time `json:"updated_date"`
	ProjectName     string    `json:"project_name,omitempty"`
	StatusName      string    `json:"status_name,omitempty"`
	ResponsibleName string    `json:"responsible_name,omitempty"`
	CreatedByName   string    `json:"created_by_name,omitempty"`
	Info            *InfoDTO  `json:"info,omitempty"`
}

// DefectListResponse represents a paginated list of defects
type DefectListResponse struct {
	Defects    []DefectDTO `json:"defects"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalCount int64       `json:"total_count"`
}

// ToInfoDTO converts an Info model to InfoDTO
func ToInfoDTO(info models.Info) InfoDTO {
	return InfoDTO{
		ID:                info.ID,
		DefectName:        info.DefectName,
		DefectDescription: info.DefectDescription,
		Priority:          info.Priority,
		DueDate:           info.DueDate,
		StatusChangeDate:  info.StatusChangeDate,
	}
}

// ToDefectDTO converts a Defect model to DefectDTO
func ToDefectDTO(defect models.Defect) DefectDTO {
	dto := DefectDTO{
		ID:            defect.ID,
		ProjectID:     defect.ProjectID,
		StatusID:      defect.StatusID,
		InfoID:        defect.InfoID,
		ResponsibleID: defect.ResponsibleID,
		CreatedByID:   defect.CreatedByID,
		CreatedDate:   defect.CreatedDate,
		UpdatedDate:   defect.UpdatedDate,
		ProjectName:   defect.Project.Name,
		StatusName:    defect.Status.Name,
		CreatedByName: defect.CreatedBy.DisplayName,
	}

	if defect.Responsible != nil {
		dto.ResponsibleName = defect.Responsible.DisplayName
	}

	// Include info if preloaded
	if defect.Info.ID != 0 {
		info := ToInfoDTO(defect.Info)
		dto.Info = &info
	}

	return dto
}

// ToDefectListResponse converts a slice of defects to DefectListResponse
func ToDefectListResponse(defects []models.Defect, page, pageSize int, totalCount int64) DefectListResponse {
	items := make([]DefectDTO, len(defects))
	for i, d := range defects {
		items[i] = ToDefectDTO(d)
	}

	return DefectListResponse{
		Defects:    items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
