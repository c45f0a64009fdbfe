package models

import "time"

// Defect is the central mutable entity. Every mutation is mirrored into
// DefectHistory by the audit recorder; nothing else writes history rows.
type Defect struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	ProjectID     uint64    `gorm:"not null;index" json:"project_id"`
	StatusID      uint64    `gorm:"not null;index" json:"status_id"`
	InfoID        uint64    `gorm:"not null;uniqueIndex" json:"info_id"`
	ResponsibleID *uint64   `gorm:"index" json:"responsible_id"`
	CreatedByID   uint64    `gorm:"not null" json:"created_by_id"`
	CreatedDate   time.Time `json:"created_date"`
	UpdatedDate   time.Time `json:"updated_date"`

	// Relations. History rows are deliberately not an association: a
	// foreign key on defect_histories.defect_id would block deleting a
	// defect whose audit trail must stay behind.
	Project     Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Status      DefectStatus       `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Info        Info               `gorm:"foreignKey:InfoID" json:"info,omitempty"`
	Responsible *User              `gorm:"foreignKey:ResponsibleID;constraint:OnDelete:SET NULL" json:"responsible,omitempty"`
	CreatedBy   User               `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Comments    []Comment          `gorm:"foreignKey:DefectID" json:"comments,omitempty"`
	Attachments []DefectAttachment `gorm:"foreignKey:DefectID" json:"attachments,omitempty"`
}
