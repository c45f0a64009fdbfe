package dto

import (
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ProjectStatusID   uint64    `json:"project_status_id"`
	ProjectStatusName string    `json:"project_status_name,omitempty"`
	CreatedDate       time.Time `json:"created_date"`
	UpdatedDate       time.Time `json:"updated_date"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:                project.ID,
		Name:              project.Name,
		Description:       project.Description,
		ProjectStatusID:   project.ProjectStatusID,
		ProjectStatusName: project.ProjectStatus.Name,
		CreatedDate:       project.CreatedDate,
		UpdatedDate:       project.UpdatedDate,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}
