package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

const (
	MaxUsernameLen = 191
	MaxNameLen     = 255
)

// ParseRole coerces s to a valid role: a case-insensitive "ADMIN" is
// RoleAdmin, anything else is RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User represents an authenticated user in the system.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Username     string    `gorm:"uniqueIndex;size:191;not null" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"` // bcrypt, never exposed in JSON
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Name         *string   `gorm:"size:255" json:"name"`
	Email        *string   `gorm:"size:255" json:"email"`
	Image        *string   `gorm:"size:500" json:"image,omitempty"`
	// Routes are the path grants of a non-admin user; removed with the user.
	Routes []RouteAccess `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// DisplayName returns the name if set, else the username.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Username
}
