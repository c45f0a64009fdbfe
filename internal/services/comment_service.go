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
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("comment is not accessible to this user")
	ErrCommentTextEmpty = errors.New("comment text is required")
)

// CommentService handles comment business logic. Visibility and mutation
// rights are derived from the parent defect.
type CommentService struct {
	commentRepo repository.CommentRepository
	defectRepo  repository.DefectRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, defectRepo repository.DefectRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		defectRepo:  defectRepo,
	}
}

// ListForDefect returns the non-deleted comments of a defect.
func (s *CommentService) ListForDefect(actor Actor, defectID uint64) ([]models.Comment, error) {
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

	comments, err := s.commentRepo.ListByDefect(defectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CreateCommentInput represents input for creating a comment.
type CreateCommentInput struct {
	DefectID uint64
	Text     string
}

// CreateComment adds a comment to a defect the actor may write to.
func (s *CommentService) CreateComment(actor Actor, input CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrCommentTextEmpty
	}

	defect, err := s.defectRepo.FindByID(input.DefectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, fmt.Errorf("failed to find defect: %w", err)
	}

	if !policy.CanAddDefectChild(actor.RoleID, actor.ID, defect.ResponsibleID) {
		return nil, ErrCommentForbidden
	}

	comment := &models.Comment{
		DefectID:    input.DefectID,
		UserID:      actor.ID,
		Text:        input.Text,
		CreatedDate: time.Now().UTC(),
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByID(comment.ID)
}

// UpdateComment edits the text of a comment the actor may modify.
func (s *CommentService) UpdateComment(actor Actor, id uint64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentTextEmpty
	}

	comment, defect, err := s.loadWithDefect(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanModifyDefectChild(actor.RoleID, actor.ID, comment.UserID, defect.ResponsibleID) {
		return nil, ErrCommentForbidden
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return s.commentRepo.FindByID(id)
}

// DeleteComment soft-deletes a comment; the row keeps all its fields but
// disappears from listings.
func (s *CommentService) DeleteComment(actor Actor, id uint64) error {
	comment, defect, err := s.loadWithDefect(id)
	if err != nil {
		return err
	}

	if !policy.CanModifyDefectChild(actor.RoleID, actor.ID, comment.UserID, defect.ResponsibleID) {
		return ErrCommentForbidden
	}

	if err := s.commentRepo.SoftDelete(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) loadWithDefect(id uint64) (*models.Comment, *models.Defect, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if comment.IsDeleted {
		return nil, nil, ErrCommentNotFound
	}

	defect, err := s.defectRepo.FindByID(comment.DefectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDefectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find defect: %w", err)
	}

	return comment, defect, nil
}
