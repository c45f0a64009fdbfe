package repository

import (
	"errors"
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// ErrConflict is returned when a guarded update finds the row changed by
// a concurrent writer since it was loaded.
var ErrConflict = errors.New("repository: concurrent update detected")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with its role preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByLogin finds a user by login
	FindByLogin(login string) (*models.User, error)

	// List returns all users with their roles
	List() ([]models.User, error)

	// ListByRoles returns users holding any of the given roles, with
	// their assigned defects and defect infos preloaded
	ListByRoles(roleIDs []uint64) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint64) (*models.Project, error)
	List() ([]models.Project, error)
	Update(project *models.Project) error
	Delete(id uint64) error
}

// DefectFilter holds filtering options for listing defects
type DefectFilter struct {
	ProjectID     *uint64
	StatusID      *uint64
	ResponsibleID *uint64

	// Caller identity; the Observer row filter is derived from it.
	RoleID uint64
	UserID uint64

	Page     int
	PageSize int
}

// DefectRepository defines the interface for defect data access. The
// *WithHistory methods are the only write paths and commit the primary
// change together with its audit rows in one transaction.
type DefectRepository interface {
	// FindByID finds a defect by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Defect, error)

	// List retrieves defects visible to the caller with filtering and
	// pagination
	List(filter DefectFilter) ([]models.Defect, int64, error)

	// ListScoped returns all defects visible to the caller, with
	// relations preloaded, for aggregate views
	ListScoped(roleID, userID uint64, since *time.Time, preload ...string) ([]models.Defect, error)

	// CreateWithHistory persists the defect and its info, then the audit
	// rows produced by makeRows from the persisted entity
	CreateWithHistory(defect *models.Defect, makeRows func(d *models.Defect) []models.DefectHistory) error

	// UpdateWithHistory saves the defect guarded by the previously loaded
	// update timestamp, saves its info, and appends the audit rows.
	// Returns ErrConflict when a concurrent writer got there first.
	UpdateWithHistory(defect *models.Defect, prevUpdated time.Time, rows []models.DefectHistory) error

	// DeleteWithHistory appends the deletion marker, then removes the
	// defect with its comments, attachments and info. History survives.
	DeleteWithHistory(defect *models.Defect, rows []models.DefectHistory) error

	// Exists reports whether a defect row is present
	Exists(id uint64) (bool, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint64) (*models.Comment, error)
	// ListByDefect excludes soft-deleted rows
	ListByDefect(defectID uint64) ([]models.Comment, error)
	Update(comment *models.Comment) error
	// SoftDelete marks the comment deleted, retaining all fields
	SoftDelete(id uint64) error
}

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	Create(attachment *models.DefectAttachment) error
	FindByID(id uint64) (*models.DefectAttachment, error)
	ListByDefect(defectID uint64) ([]models.DefectAttachment, error)
	Update(attachment *models.DefectAttachment) error
	Delete(id uint64) error
}

// HistoryRepository is read-only: history rows are written exclusively
// through the defect repository's transactional methods.
type HistoryRepository interface {
	// ListByDefect returns history rows ordered by change date
	ListByDefect(defectID uint64) ([]models.DefectHistory, error)
}

// ReferenceRepository serves the fixed seed tables
type ReferenceRepository interface {
	ListRoles() ([]models.Role, error)
	ListProjectStatuses() ([]models.ProjectStatus, error)
	ListDefectStatuses() ([]models.DefectStatus, error)
}
