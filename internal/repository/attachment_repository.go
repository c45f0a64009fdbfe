package repository

import (
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

func (r *GormAttachmentRepository) Create(attachment *models.DefectAttachment) error {
	return r.db.Create(attachment).Error
}

func (r *GormAttachmentRepository) FindByID(id uint64) (*models.DefectAttachment, error) {
	var attachment models.DefectAttachment
	if err := r.db.Preload("UploadedBy").First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *GormAttachmentRepository) ListByDefect(defectID uint64) ([]models.DefectAttachment, error) {
	var attachments []models.DefectAttachment
	err := r.db.Preload("UploadedBy").
		Where("defect_id = ?", defectID).
		Order("upload_date").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *GormAttachmentRepository) Update(attachment *models.DefectAttachment) error {
	return r.db.Save(attachment).Error
}

func (r *GormAttachmentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.DefectAttachment{}, id).Error
}
