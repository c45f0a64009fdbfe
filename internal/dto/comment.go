package dto

import (
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID          uint64    `json:"id"`
	DefectID    uint64    `json:"defect_id"`
	UserID      uint64    `json:"user_id"`
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
	UserName    string    `json:"user_name,omitempty"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:          comment.ID,
		DefectID:    comment.DefectID,
		UserID:      comment.UserID,
		Text:        comment.Text,
		CreatedDate: comment.CreatedDate,
		UserName:    comment.User.DisplayName,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = ToCommentDTO(c)
	}
	return dtos
}
