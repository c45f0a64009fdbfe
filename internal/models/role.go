package models

// Role is fixed reference data seeded at migration time.
type Role struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`

	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}
