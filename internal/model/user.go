package model

import "time"

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// User mirrors the principal issued by the external identity provider.
// Accounts are created and authenticated elsewhere; this row only backs
// ownership checks and the admin role guard.
// swagger:model User
type User struct {
	BaseModel
	Name     string    `gorm:"size:120;not null" json:"name"`
	Email    string    `gorm:"size:100;unique;not null" json:"email"`
	Role     UserRole  `gorm:"type:varchar(20);default:'member'" json:"role"`
	Disabled bool      `gorm:"default:false" json:"disabled"`
	LastSeen time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
