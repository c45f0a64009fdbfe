package models

import "time"

type DefectAttachment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	DefectID     uint64    `gorm:"not null;index" json:"defect_id"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath     string    `gorm:"type:varchar(500);not null" json:"file_path"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	UploadDate   time.Time `json:"upload_date"`
	UploadedByID uint64    `gorm:"not null" json:"uploaded_by_id"`

	// Relations
	Defect     Defect `gorm:"foreignKey:DefectID" json:"-"`
	UploadedBy User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}
