package models

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	RoleID       uint64 `gorm:"not null" json:"role_id"`
	Login        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"login"`
	DisplayName  string `gorm:"type:varchar(255);not null" json:"display_name"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// Relations
	Role               Role            `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	ResponsibleDefects []Defect        `gorm:"foreignKey:ResponsibleID;constraint:OnDelete:SET NULL" json:"-"`
	Comments           []Comment       `gorm:"foreignKey:UserID" json:"-"`
	HistoryEntries     []DefectHistory `gorm:"foreignKey:UserID" json:"-"`
}
