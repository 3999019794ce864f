package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/validation"
	"gorm.io/gorm"
)

type LookupService struct {
	db *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{db: db}
}

type LookupInput struct {
	Type   string
	Value  string
	Label  string
	Order  *int
	Active *bool // nil means true
}

// ListByType returns the active items of one type in display order.
func (s *LookupService) ListByType(ctx context.Context, typ string) ([]models.LookupItem, error) {
	var items []models.LookupItem
	err := s.db.WithContext(ctx).
		Where("type = ? AND active = ?", typ, true).
		Order(models.LookupDisplayOrder).
		Find(&items).Error
	return items, err
}

// ListByTypes returns the active items of the given types grouped by type.
// Types without active items are absent from the result.
func (s *LookupService) ListByTypes(ctx context.Context, types []string) (map[string][]models.LookupItem, error) {
	grouped := map[string][]models.LookupItem{}
	if len(types) == 0 {
		return grouped, nil
	}
	var items []models.LookupItem
	err := s.db.WithContext(ctx).
		Where("type IN ? AND active = ?", types, true).
		Order("type ASC, " + models.LookupDisplayOrder).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		grouped[it.Type] = append(grouped[it.Type], it)
	}
	return grouped, nil
}

// ListAll returns every item, inactive ones included, ordered by type.
func (s *LookupService) ListAll(ctx context.Context) ([]models.LookupItem, error) {
	var items []models.LookupItem
	err := s.db.WithContext(ctx).Order("type ASC, " + models.LookupDisplayOrder).Find(&items).Error
	return items, err
}

// Upsert creates the item keyed by (type, value) or updates its label,
// order and active flag.
func (s *LookupService) Upsert(ctx context.Context, in LookupInput) (*models.LookupItem, error) {
	in.Type, in.Value, in.Label = strings.TrimSpace(in.Type), strings.TrimSpace(in.Value), strings.TrimSpace(in.Label)
	v := validation.Violations{}
	validation.RequiredAll(map[string]string{"type": in.Type, "value": in.Value, "label": in.Label}, v)
	if !v.Empty() {
		return nil, invalid("Missing type/value/label", v)
	}
	validation.MaxLen("type", in.Type, models.MaxTypeLen, v)
	validation.MaxLen("value", in.Value, models.MaxValueLen, v)
	validation.MaxLen("label", in.Label, models.MaxLabelLen, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	var item models.LookupItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("type = ? AND value = ?", in.Type, in.Value).First(&item).Error
		switch {
		case err == nil:
			item.Label, item.Order, item.Active = in.Label, in.Order, active
			return tx.Model(&item).Select("label", "sort_order", "active", "updated_at").Updates(&item).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.LookupItem{Type: in.Type, Value: in.Value, Label: in.Label, Order: in.Order, Active: active}
			return tx.Create(&item).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteOutcome tells how a lookup item was removed.
type DeleteOutcome string

const (
	Deleted     DeleteOutcome = "deleted"
	Deactivated DeleteOutcome = "deactivated"
)

// Delete hard-deletes the item, or deactivates it when the store refuses
// the delete. Both outcomes are successes.
func (s *LookupService) Delete(ctx context.Context, id string) (DeleteOutcome, error) {
	hardErr := s.tryHardDelete(ctx, id)
	if hardErr == nil {
		return Deleted, nil
	}
	if errors.Is(hardErr, ErrNotFound) {
		return "", ErrNotFound
	}
	slog.Default().DebugContext(ctx, "lookup hard delete refused, deactivating", "id", id, "error", hardErr)
	if err := s.deactivate(ctx, id); err != nil {
		return "", err
	}
	return Deactivated, nil
}

func (s *LookupService) tryHardDelete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.LookupItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LookupService) deactivate(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.LookupItem{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
