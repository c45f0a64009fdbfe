package repository

import (
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// GormHistoryRepository is a GORM implementation of HistoryRepository.
// It is deliberately read-only: the audit rows are written inside the
// defect repository's transactions and nowhere else.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

// ListByDefect returns history rows ordered by change date
func (r *GormHistoryRepository) ListByDefect(defectID uint64) ([]models.DefectHistory, error) {
	var rows []models.DefectHistory
	err := r.db.Preload("User").
		Where("defect_id = ?", defectID).
		Order("change_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
