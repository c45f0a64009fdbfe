package dto

import (
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// HistoryDTO represents one audit record in API responses
type HistoryDTO struct {
	ID         uint64    `json:"id"`
	DefectID   uint64    `json:"defect_id"`
	UserID     uint64    `json:"user_id"`
	FieldName  string    `json:"field_name"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	ChangeDate time.Time `json:"change_date"`
	UserName   string    `json:"user_name,omitempty"`
}

// ToHistoryDTO converts a DefectHistory model to HistoryDTO
func ToHistoryDTO(row models.DefectHistory) HistoryDTO {
	return HistoryDTO{
		ID:         row.ID,
		DefectID:   row.DefectID,
		UserID:     row.UserID,
		FieldName:  row.FieldName,
		OldValue:   row.OldValue,
		NewValue:   row.NewValue,
		ChangeDate: row.ChangeDate,
		UserName:   row.User.DisplayName,
	}
}

// ToHistoryDTOs converts a slice of history rows
func ToHistoryDTOs(rows []models.DefectHistory) []HistoryDTO {
	dtos := make([]HistoryDTO, len(rows))
	for i, r := range rows {
		dtos[i] = ToHistoryDTO(r)
	}
	return dtos
}
