package db

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the catalogue of default accounts and lookup items.
type SeedData struct {
	Users   []SeedUser        `yaml:"users"`
	Lookups []SeedLookupGroup `yaml:"lookups"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
}

type SeedLookupGroup struct {
	Type  string `yaml:"type"`
	Items []struct {
		Value string `yaml:"value"`
		Label string `yaml:"label"`
		Order *int   `yaml:"order"`
	} `yaml:"items"`
}

// ParseSeed decodes a YAML seed catalogue.
func ParseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for _, u := range data.Users {
		if strings.TrimSpace(u.Username) == "" || u.Password == "" {
			return nil, errors.New("seed user needs username and password")
		}
	}
	for _, g := range data.Lookups {
		if g.Type == "" {
			return nil, errors.New("seed lookup group needs a type")
		}
	}
	return &data, nil
}

// DefaultSeed returns the embedded catalogue.
func DefaultSeed() *SeedData {
	data, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(err)
	}
	return data
}

// Seed applies the embedded catalogue. It is idempotent.
func Seed(db *gorm.DB) error {
	return SeedWith(db, DefaultSeed())
}

// SeedWith creates missing users and upserts lookup items. Existing users
// keep their password and profile; lookup items are reset to the catalogue
// label and order and reactivated.
func SeedWith(db *gorm.DB, data *SeedData) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, su := range data.Users {
			if err := seedUser(tx, su); err != nil {
				return err
			}
		}
		for _, g := range data.Lookups {
			for _, it := range g.Items {
				item := models.LookupItem{Type: g.Type, Value: it.Value, Label: it.Label, Order: it.Order, Active: true}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "type"}, {Name: "value"}},
					DoUpdates: clause.AssignmentColumns([]string{"label", "sort_order", "active", "updated_at"}),
				}).Create(&item).Error
				if err != nil {
					return fmt.Errorf("seed lookup %s/%s: %w", g.Type, it.Value, err)
				}
			}
		}
		return nil
	})
}

func seedUser(tx *gorm.DB, su SeedUser) error {
	var existing models.User
	err := tx.Where("username = ?", su.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := auth.HashPassword(su.Password)
	if err != nil {
		return err
	}
	u := models.User{
		Username:     strings.TrimSpace(su.Username),
		PasswordHash: hash,
		Role:         models.ParseRole(su.Role),
		Name:         optional(su.Name),
		Email:        optional(su.Email),
	}
	if err := tx.Create(&u).Error; err != nil {
		return fmt.Errorf("seed user %s: %w", su.Username, err)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
