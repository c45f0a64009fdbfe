package repository

import (
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByDefect excludes soft-deleted rows
func (r *GormCommentRepository) ListByDefect(defectID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("User").
		Where("defect_id = ? AND is_deleted = ?", defectID, false).
		Order("created_date").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// SoftDelete marks the comment deleted, retaining all fields
func (r *GormCommentRepository) SoftDelete(id uint64) error {
	return r.db.Model(&models.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
