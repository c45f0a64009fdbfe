package repository

import (
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// GormReferenceRepository serves the fixed seed tables
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormReferenceRepository) ListProjectStatuses() ([]models.ProjectStatus, error) {
	var statuses []models.ProjectStatus
	if err := r.db.Order("id").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *GormReferenceRepository) ListDefectStatuses() ([]models.DefectStatus, error) {
	var statuses []models.DefectStatus
	if err := r.db.Order("id").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
