package models

import (
	"time"

	"github.com/diewo77/go-safety/gate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxPathLen = 255

// RouteAccess grants a non-admin user access to a UI path or path prefix.
// Unique on (UserID, Path).
type RouteAccess struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_route_access_user_path" json:"userId"`
	Path      string    `gorm:"size:255;not null;uniqueIndex:idx_route_access_user_path" json:"path"`
	IsPrefix  bool      `gorm:"not null" json:"isPrefix"`
}

func (RouteAccess) TableName() string { return "route_access" }

func (r *RouteAccess) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Grant converts the row to its gate representation.
func (r RouteAccess) Grant() gate.Grant {
	return gate.Grant{Path: r.Path, IsPrefix: r.IsPrefix}
}
