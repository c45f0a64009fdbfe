package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
)

var (
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrAttachmentForbidden = errors.New("attachment is not accessible to this user")
	ErrAttachmentFileName  = errors.New("file name and path are required")
)

// AttachmentService handles attachment metadata. Files themselves live at
// an external URL; only the reference is stored.
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	defectRepo     repository.DefectRepository
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(attachmentRepo repository.AttachmentRepository, defectRepo repository.DefectRepository) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		defectRepo:     defectRepo,
	}
}

// ListForDefect returns the attachments of a defect.
func (s *AttachmentService) ListForDefect(actor Actor, defectID uint64) ([]models.DefectAttachment, error) {
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

	attachments, err := s.attachmentRepo.ListByDefect(defectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// CreateAttachmentInput represents input for attaching a file reference.
type CreateAttachmentInput struct {
	DefectID uint64
	FileName string
	FilePath string
	FileSize int64
}

// CreateAttachment records a file reference on a defect the actor may
// write to.
func (s *AttachmentService) CreateAttachment(actor Actor, input CreateAttachmentInput) (*models.DefectAttachment, error) {
	if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.FilePath) == "" {
		return nil, ErrAttachmentFileName
	}

	defect, err := s.defectRepo.FindByID(input.DefectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, fmt.Errorf("failed to find defect: %w", err)
	}

	if !policy.CanAddDefectChild(actor.RoleID, actor.ID, defect.ResponsibleID) {
		return nil, ErrAttachmentForbidden
	}

	attachment := &models.DefectAttachment{
		DefectID:     input.DefectID,
		FileName:     input.FileName,
		FilePath:     input.FilePath,
		FileSize:     input.FileSize,
		UploadDate:   time.Now().UTC(),
		UploadedByID: actor.ID,
	}

	if err := s.attachmentRepo.Create(attachment); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	return s.attachmentRepo.FindByID(attachment.ID)
}

// UpdateAttachmentInput represents input for editing an attachment record.
type UpdateAttachmentInput struct {
	FileName *string
	FilePath *string
	FileSize *int64
}

// UpdateAttachment edits an attachment the actor may modify.
func (s *AttachmentService) UpdateAttachment(actor Actor, id uint64, input UpdateAttachmentInput) (*models.DefectAttachment, error) {
	attachment, defect, err := s.loadWithDefect(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanModifyDefectChild(actor.RoleID, actor.ID, attachment.UploadedByID, defect.ResponsibleID) {
		return nil, ErrAttachmentForbidden
	}

	if input.FileName != nil {
		if strings.TrimSpace(*input.FileName) == "" {
			return nil, ErrAttachmentFileName
		}
		attachment.FileName = *input.FileName
	}
	if input.FilePath != nil {
		attachment.FilePath = *input.FilePath
	}
	if input.FileSize != nil {
		attachment.FileSize = *input.FileSize
	}

	if err := s.attachmentRepo.Update(attachment); err != nil {
		return nil, fmt.Errorf("failed to update attachment: %w", err)
	}

	return s.attachmentRepo.FindByID(id)
}

// DeleteAttachment removes an attachment record the actor may modify.
func (s *AttachmentService) DeleteAttachment(actor Actor, id uint64) error {
	attachment, defect, err := s.loadWithDefect(id)
	if err != nil {
		return err
	}

	if !policy.CanModifyDefectChild(actor.RoleID, actor.ID, attachment.UploadedByID, defect.ResponsibleID) {
		return ErrAttachmentForbidden
	}

	if err := s.attachmentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

func (s *AttachmentService) loadWithDefect(id uint64) (*models.DefectAttachment, *models.Defect, error) {
	attachment, err := s.attachmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	defect, err := s.defectRepo.FindByID(attachment.DefectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDefectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find defect: %w", err)
	}

	return attachment, defect, nil
}
