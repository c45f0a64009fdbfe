package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/audit"
	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
	"github.com/vkotelnikov/defect-tracking-api/internal/models"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
)

var (
	ErrDefectNotFound   = errors.New("defect not found")
	ErrDefectForbidden  = errors.New("defect is not visible to this user")
	ErrDefectConflict   = errors.New("defect was modified concurrently, retry")
	ErrDefectNameNeeded = errors.New("defect name is required")
	ErrBadPriority      = errors.New("priority must be at least 1")
)

var defectPreloads = []string{"Project", "Status", "Info", "Responsible", "CreatedBy"}

// DefectService handles defect business logic. Every mutation passes
// through the audit recorder: the snapshot is taken on load, the diff is
// materialized as history rows, and the repository commits both writes in
// one transaction.
type DefectService struct {
	defectRepo  repository.DefectRepository
	historyRepo repository.HistoryRepository
}

// NewDefectService creates a new DefectService.
func NewDefectService(defectRepo repository.DefectRepository, historyRepo repository.HistoryRepository) *DefectService {
	return &DefectService{
		defectRepo:  defectRepo,
		historyRepo: historyRepo,
	}
}

// ListDefectsInput represents filters for listing defects.
type ListDefectsInput struct {
	ProjectID     *uint64
	StatusID      *uint64
	ResponsibleID *uint64
	Page          int
	PageSize      int
}

// ListDefects returns defects visible to the actor. Observers are
// silently narrowed to defects assigned to them.
func (s *DefectService) ListDefects(actor Actor, input ListDefectsInput) ([]models.Defect, int64, error) {
	filter := repository.DefectFilter{
		ProjectID:     input.ProjectID,
		StatusID:      input.StatusID,
		ResponsibleID: input.ResponsibleID,
		RoleID:        actor.RoleID,
		UserID:        actor.ID,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	defects, total, err := s.defectRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list defects: %w", err)
	}
	return defects, total, nil
}

// GetDefect returns a defect with its relations. A non-owning Observer
// gets ErrDefectForbidden after the existence check, not a not-found.
func (s *DefectService) GetDefect(actor Actor, id uint64) (*models.Defect, error) {
	defect, err := s.defectRepo.FindByID(id, defectPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, fmt.Errorf("failed to find defect: %w", err)
	}

	if !policy.CanSeeDefect(actor.RoleID, actor.ID, defect.ResponsibleID) {
		return nil, ErrDefectForbidden
	}

	return defect, nil
}

// InfoInput carries the descriptive payload of a defect.
type InfoInput struct {
	DefectName        string
	DefectDescription string
	Priority          int16
	DueDate           *time.Time
}

// CreateDefectInput represents input for creating a defect.
type CreateDefectInput struct {
	ProjectID     uint64
	StatusID      uint64
	ResponsibleID *uint64
	Info          InfoInput
}

// CreateDefect creates a defect with its info row and the creation audit
// trail in one transaction.
func (s *DefectService) CreateDefect(actor Actor, input CreateDefectInput) (*models.Defect, error) {
	if !policy.Allows(actor.RoleID, policy.ActionManageDefects) {
		return nil, ErrDefectForbidden
	}
	if strings.TrimSpace(input.Info.DefectName) == "" {
		return nil, ErrDefectNameNeeded
	}
	if input.Info.Priority < 1 {
		return nil, ErrBadPriority
	}

	now := time.Now().UTC()
	defect := &models.Defect{
		ProjectID:     input.ProjectID,
		StatusID:      input.StatusID,
		ResponsibleID: input.ResponsibleID,
		CreatedByID:   actor.ID,
		CreatedDate:   now,
		UpdatedDate:   now,
		Info: models.Info{
			DefectName:        input.Info.DefectName,
			DefectDescription: input.Info.DefectDescription,
			Priority:          input.Info.Priority,
			DueDate:           input.Info.DueDate,
			StatusChangeDate:  now,
		},
	}
	if defect.StatusID == 0 {
		defect.StatusID = constants.StatusNew
	}

	err := s.defectRepo.CreateWithHistory(defect, func(d *models.Defect) []models.DefectHistory {
		return audit.Rows(d.ID, actor.ID, now, audit.CreationChanges(d))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create defect: %w", err)
	}

	return s.defectRepo.FindByID(defect.ID, defectPreloads...)
}

// UpdateDefectInput represents input for updating a defect. Nil pointers
// leave the field untouched; ClearResponsible unassigns.
type UpdateDefectInput struct {
	ProjectID        *uint64
	StatusID         *uint64
	ResponsibleID    *uint64
	ClearResponsible bool

	DefectName        *string
	DefectDescription *string
	Priority          *int16
	DueDate           *time.Time
	ClearDueDate      bool
}

// UpdateDefect applies the changes and appends one history row per field
// whose stringified value actually changed. Engineers may only update
// defects assigned to them. A concurrent save is re-checked for
// existence: a vanished row reports not-found, a surviving one conflict.
func (s *DefectService) UpdateDefect(actor Actor, id uint64, input UpdateDefectInput) (*models.Defect, error) {
	defect, err := s.defectRepo.FindByID(id, "Info")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, fmt.Errorf("failed to find defect: %w", err)
	}

	if !policy.Allows(actor.RoleID, policy.ActionManageDefects) ||
		!policy.CanUpdateDefect(actor.RoleID, actor.ID, defect.ResponsibleID) {
		return nil, ErrDefectForbidden
	}

	snapshot := audit.TakeSnapshot(defect)
	prevUpdated := defect.UpdatedDate
	now := time.Now().UTC()

	if input.ProjectID != nil {
		defect.ProjectID = *input.ProjectID
	}
	if input.StatusID != nil && *input.StatusID != defect.StatusID {
		defect.StatusID = *input.StatusID
		defect.Info.StatusChangeDate = now
	}
	if input.ClearResponsible {
		defect.ResponsibleID = nil
	} else if input.ResponsibleID != nil {
		defect.ResponsibleID = input.ResponsibleID
	}
	if input.DefectName != nil {
		if strings.TrimSpace(*input.DefectName) == "" {
			return nil, ErrDefectNameNeeded
		}
		defect.Info.DefectName = *input.DefectName
	}
	if input.DefectDescription != nil {
		defect.Info.DefectDescription = *input.DefectDescription
	}
	if input.Priority != nil {
		if *input.Priority < 1 {
			return nil, ErrBadPriority
		}
		defect.Info.Priority = *input.Priority
	}
	if input.ClearDueDate {
		defect.Info.DueDate = nil
	} else if input.DueDate != nil {
		defect.Info.DueDate = input.DueDate
	}
	defect.UpdatedDate = now

	changes := audit.Diff(snapshot, defect)
	rows := audit.Rows(defect.ID, actor.ID, now, changes)

	if err := s.defectRepo.UpdateWithHistory(defect, prevUpdated, rows); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			exists, checkErr := s.defectRepo.Exists(id)
			if checkErr == nil && !exists {
				return nil, ErrDefectNotFound
			}
			return nil, ErrDefectConflict
		}
		return nil, fmt.Errorf("failed to update defect: %w", err)
	}

	return s.defectRepo.FindByID(defect.ID, defectPreloads...)
}

// DeleteDefect removes a defect after appending the deletion marker.
// History rows stay behind as the permanent trace of the defect.
func (s *DefectService) DeleteDefect(actor Actor, id uint64) error {
	defect, err := s.defectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDefectNotFound
		}
		return fmt.Errorf("failed to find defect: %w", err)
	}

	if !policy.Allows(actor.RoleID, policy.ActionManageDefects) {
		return ErrDefectForbidden
	}

	now := time.Now().UTC()
	rows := audit.Rows(defect.ID, actor.ID, now, []audit.Change{audit.DeletionChange()})

	if err := s.defectRepo.DeleteWithHistory(defect, rows); err != nil {
		return fmt.Errorf("failed to delete defect: %w", err)
	}
	return nil
}

// GetHistory returns the audit trail of a defect, Observer-gated through
// the parent defect.
func (s *DefectService) GetHistory(actor Actor, defectID uint64) ([]models.DefectHistory, error) {
	defect, err := s.defectRepo.FindByID(defectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, fmt.Errorf("failed to find defect: %w", err)
	}

	if !policy.CanSeeDefect(actor.RoleID, actor.ID, defect.ResponsibleID) {
		return nil, ErrDefectForbidden
	}

	rows, err := s.historyRepo.ListByDefect(defectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return rows, nil
}
