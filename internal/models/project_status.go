package models

// ProjectStatus is fixed reference data seeded at migration time.
type ProjectStatus struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`

	Projects []Project `gorm:"foreignKey:ProjectStatusID" json:"-"`
}
