package models

import "time"

// Role is the authorization role of a user.
type Role string

const RoleUser Role = "USER"

// User represents a registered identity in the system
type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"firstName" gorm:"size:100;not null"`
	LastName  string    `json:"lastName" gorm:"size:100;not null"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"size:20;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
