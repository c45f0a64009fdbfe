package models

import "time"

// Comment supports soft deletion: IsDeleted rows keep all fields but are
// excluded from default listings.
type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	DefectID    uint64    `gorm:"not null;index" json:"defect_id"`
	UserID      uint64    `gorm:"not null" json:"user_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedDate time.Time `json:"created_date"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"is_deleted"`

	// Relations
	Defect Defect `gorm:"foreignKey:DefectID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
