package models

import "time"

type Project struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	ProjectStatusID uint64    `gorm:"not null;index" json:"project_status_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedDate     time.Time `json:"created_date"`
	UpdatedDate     time.Time `json:"updated_date"`

	// Relations
	ProjectStatus ProjectStatus `gorm:"foreignKey:ProjectStatusID" json:"project_status,omitempty"`
	Defects       []Defect      `gorm:"foreignKey:ProjectID" json:"-"`
}
