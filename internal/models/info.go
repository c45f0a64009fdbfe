package models

import "time"

// Info holds the descriptive payload of a Defect, stored as a separate
// 1:1 row owned by the defect and removed with it.
type Info struct {
	ID                uint64     `gorm:"primarykey" json:"id"`
	DefectName        string     `gorm:"type:varchar(255);not null" json:"defect_name"`
	DefectDescription string     `gorm:"type:text" json:"defect_description"`
	Priority          int16      `gorm:"not null;default:1" json:"priority"`
	DueDate           *time.Time `json:"due_date"`
	StatusChangeDate  time.Time  `json:"status_change_date"`
}
