package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/validation"
	"gorm.io/gorm"
)

type CapaService struct {
	db *gorm.DB
}

func NewCapaService(db *gorm.DB) *CapaService {
	return &CapaService{db: db}
}

type CapaInput struct {
	IncidentID   string
	Description  string
	ActionTaken  string
	AssignedToID string
	CostAmount   *float64
	CostCurrency string
}

// Create stores a CAPA for an existing incident, copying the incident
// snapshot fields in the same transaction. A missing incident is ErrNotFound.
func (s *CapaService) Create(ctx context.Context, in CapaInput) (*models.Capa, error) {
	in.IncidentID = strings.TrimSpace(in.IncidentID)
	v := validation.Violations{}
	validation.RequiredAll(map[string]string{
		"incidentId":  in.IncidentID,
		"description": in.Description,
		"actionTaken": in.ActionTaken,
	}, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}
	if in.CostAmount != nil {
		validation.RangeFloat("costAmount", *in.CostAmount, 0, models.MaxCostAmount, v)
	}
	validation.MaxLen("costCurrency", strings.TrimSpace(in.CostCurrency), models.MaxCurrencyLen, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}

	var capa *models.Capa
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inc models.Incident
		if err := tx.First(&inc, "id = ?", in.IncidentID).Error; err != nil {
			return notFound(err)
		}
		assignee := trimmedOrNil(in.AssignedToID)
		if assignee != nil {
			var n int64
			if err := tx.Model(&models.User{}).Where("id = ?", *assignee).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return invalid("Invalid fields", validation.Violations{"assignedToId": "invalid"})
			}
		}
		capa = inc.NewCapa()
		capa.AssignedToID = assignee
		capa.Description = in.Description
		capa.ActionTaken = in.ActionTaken
		capa.CostAmount = in.CostAmount
		capa.CostCurrency = trimmedOrNil(in.CostCurrency)
		return tx.Create(capa).Error
	})
	if err != nil {
		return nil, err
	}
	return capa, nil
}

// List returns the newest CAPAs with their incident and assignee.
func (s *CapaService) List(ctx context.Context, limit int) ([]models.Capa, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var items []models.Capa
	err := s.db.WithContext(ctx).
		Preload("Incident").
		Preload("AssignedTo", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "name")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
