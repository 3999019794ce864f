package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LookupItem is an admin-configurable option of a category (site, severity, ...).
// Unique on (Type, Value).
type LookupItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Type      string    `gorm:"size:64;not null;uniqueIndex:idx_lookup_type_value" json:"type"`
	Value     string    `gorm:"size:128;not null;uniqueIndex:idx_lookup_type_value" json:"value"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	Order     *int      `gorm:"column:sort_order" json:"order"`
	Active    bool      `gorm:"not null" json:"active"`
}

func (LookupItem) TableName() string { return "lookup_items" }

func (l *LookupItem) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

const (
	MaxTypeLen  = 64
	MaxLabelLen = 255
)

// LookupDisplayOrder sorts by sort_order ascending with unset orders last,
// then by label. The explicit NULL handling keeps postgres and sqlite in agreement.
const LookupDisplayOrder = "CASE WHEN sort_order IS NULL THEN 1 ELSE 0 END, sort_order ASC, label ASC"
