package models

import (
	"time"

	"freightdesk/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | STAFF | AGENT | USER
	Active       bool           `gorm:"default:true;index" json:"active"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil unless linked to Google sign-in
	FCMToken     string         `gorm:"size:512" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// IsStaff reports whether the user is an internal actor (admin, agent or staff).
func (u *User) IsStaff() bool {
	for _, r := range domain.StaffRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}
