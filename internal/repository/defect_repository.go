package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/database"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/utils"
)

// GormDefectRepository is a GORM implementation of DefectRepository
type GormDefectRepository struct {
	db *gorm.DB
}

// NewDefectRepository creates a new DefectRepository
func NewDefectRepository(db *gorm.DB) DefectRepository {
	return &GormDefectRepository{db: db}
}

// FindByID finds a defect by ID with optional preloading
func (r *GormDefectRepository) FindByID(id uint64, preload ...string) (*models.Defect, error) {
	var defect models.Defect
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&defect, id).Error; err != nil {
		return nil, err
	}

	return &defect, nil
}

// List retrieves defects visible to the caller with filtering and pagination
func (r *GormDefectRepository) List(filter DefectFilter) ([]models.Defect, int64, error) {
	var defects []models.Defect

	query := r.db.Model(&models.Defect{}).
		Scopes(policy.DefectScope(filter.RoleID, filter.UserID))

	if filter.ProjectID != nil {
		query = query.Where("defects.project_id = ?", *filter.ProjectID)
	}
	if filter.StatusID != nil {
		query = query.Where("defects.status_id = ?", *filter.StatusID)
	}
	if filter.ResponsibleID != nil {
		query = query.Where("defects.responsible_id = ?", *filter.ResponsibleID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("defects.created_date DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	err := listQuery.
		Preload("Project").
		Preload("Status").
		Preload("Info").
		Preload("Responsible").
		Preload("CreatedBy").
		Find(&defects).Error
	if err != nil {
		return nil, 0, err
	}

	return defects, total, nil
}

// ListScoped returns all defects visible to the caller for aggregate views
func (r *GormDefectRepository) ListScoped(roleID, userID uint64, since *time.Time, preload ...string) ([]models.Defect, error) {
	var defects []models.Defect

	query := r.db.Scopes(policy.DefectScope(roleID, userID))
	if since != nil {
		query = query.Where("defects.created_date >= ?", *since)
	}
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Find(&defects).Error; err != nil {
		return nil, err
	}
	return defects, nil
}

// CreateWithHistory persists the defect and its info, then the audit rows
// produced by makeRows from the persisted entity, in one transaction.
func (r *GormDefectRepository) CreateWithHistory(defect *models.Defect, makeRows func(d *models.Defect) []models.DefectHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&defect.Info).Error; err != nil {
			return err
		}
		defect.InfoID = defect.Info.ID

		if err := tx.Create(defect).Error; err != nil {
			return err
		}

		rows := makeRows(defect)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// UpdateWithHistory saves the defect guarded by the previously loaded
// update timestamp, saves its info, and appends the audit rows. A guard
// miss means a concurrent writer changed the row since it was loaded.
func (r *GormDefectRepository) UpdateWithHistory(defect *models.Defect, prevUpdated time.Time, rows []models.DefectHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Defect{}).
			Where("id = ? AND updated_date = ?", defect.ID, prevUpdated).
			Updates(map[string]interface{}{
				"project_id":     defect.ProjectID,
				"status_id":      defect.StatusID,
				"responsible_id": defect.ResponsibleID,
				"updated_date":   defect.UpdatedDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		if err := tx.Save(&defect.Info).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// DeleteWithHistory appends the deletion marker, then removes the defect
// with its comments, attachments and info. History rows stay behind.
func (r *GormDefectRepository) DeleteWithHistory(defect *models.Defect, rows []models.DefectHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("defect_id = ?", defect.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("defect_id = ?", defect.ID).Delete(&models.DefectAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Defect{}, defect.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Info{}, defect.InfoID).Error
	})
}

// Exists reports whether a defect row is present
func (r *GormDefectRepository) Exists(id uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Defect{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
