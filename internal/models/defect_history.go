package models

import "time"

// DefectHistory is an append-only audit record of one field transition.
// Rows are never updated or deleted once written; they survive the
// removal of the defect they describe.
type DefectHistory struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	DefectID   uint64    `gorm:"not null;index" json:"defect_id"`
	UserID     uint64    `gorm:"not null" json:"user_id"`
	FieldName  string    `gorm:"type:varchar(100);not null" json:"field_name"`
	OldValue   string    `gorm:"type:text" json:"old_value"`
	NewValue   string    `gorm:"type:text" json:"new_value"`
	ChangeDate time.Time `gorm:"index" json:"change_date"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
