package models

import (
	"time"
)

// Roles assigned by the seeding tool. The application only distinguishes
// logged in from not logged in; the role is carried in the token for clients.
const (
	RoleAdmin = "admin"
	RolePaid  = "paid"
	RoleFree  = "free"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'free'" json:"role"`
}
