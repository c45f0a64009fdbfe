package dto

import (
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID             uint64    `json:"id"`
	DefectID       uint64    `json:"defect_id"`
	FileName       string    `json:"file_name"`
	FilePath       string    `json:"file_path"`
	FileSize       int64     `json:"file_size"`
	UploadDate     time.Time `json:"upload_date"`
	UploadedByID   uint64    `json:"uploaded_by_id"`
	UploadedByName string    `json:"uploaded_by_name,omitempty"`
}

// ToAttachmentDTO converts a DefectAttachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.DefectAttachment) AttachmentDTO {
	return AttachmentDTO{
		ID:             attachment.ID,
		DefectID:       attachment.DefectID,
		FileName:       attachment.FileName,
		FilePath:       attachment.FilePath,
		FileSize:       attachment.FileSize,
		UploadDate:     attachment.UploadDate,
		UploadedByID:   attachment.UploadedByID,
		UploadedByName: attachment.UploadedBy.DisplayName,
	}
}

// ToAttachmentDTOs converts a slice of attachments
func ToAttachmentDTOs(attachments []models.DefectAttachment) []AttachmentDTO {
	dtos := make([]AttachmentDTO, len(attachments))
	for i, a := range attachments {
		dtos[i] = ToAttachmentDTO(a)
	}
	return dtos
}
