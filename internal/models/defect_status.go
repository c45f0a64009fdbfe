package models

// DefectStatus is fixed reference data seeded at migration time.
// Transitions between statuses are unconstrained.
type DefectStatus struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`

	Defects []Defect `gorm:"foreignKey:StatusID" json:"-"`
}
