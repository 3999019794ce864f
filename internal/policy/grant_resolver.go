package policy

import (
	"context"

	"github.com/diewo77/go-safety/gate"
	"github.com/diewo77/go-safety/internal/models"
	"gorm.io/gorm"
)

// DBGrantResolver loads route grants from the route_access table.
// It implements gate.GrantResolver for string user ids.
type DBGrantResolver struct {
	DB *gorm.DB
}

func NewDBGrantResolver(db *gorm.DB) *DBGrantResolver {
	return &DBGrantResolver{DB: db}
}

// Resolve returns the grants owned by userID. Unknown users have none.
func (r *DBGrantResolver) Resolve(ctx context.Context, userID string) ([]gate.Grant, error) {
	var rows []models.RouteAccess
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	grants := make([]gate.Grant, len(rows))
	for i, row := range rows {
		grants[i] = row.Grant()
	}
	return grants, nil
}
