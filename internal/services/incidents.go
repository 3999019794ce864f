package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/internal/risk"
	"github.com/diewo77/go-safety/validation"
	"gorm.io/gorm"
)

// DefaultListLimit applies when a listing is requested without a usable limit.
const DefaultListLimit = 10

// occurrence layouts accepted for the time of day.
var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

type IncidentService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewIncidentService builds the service. Occurrence times are read in loc,
// or local time when loc is nil.
func NewIncidentService(db *gorm.DB, loc *time.Location) *IncidentService {
	if loc == nil {
		loc = time.Local
	}
	return &IncidentService{db: db, loc: loc}
}

// IncidentInput is a submitted incident report. RiskScore wins over the
// three risk factor keys when both are given.
type IncidentInput struct {
	Site                string
	Date                string // ISO date, only the first 10 characters are read
	Time                string // HH:MM or HH:MM:SS
	IncidentArea        string
	IncidentCategory    string
	Shift               string
	Severity            string
	PersonnelType       string
	InjuryArea          string
	OperationalCategory string
	Description         string
	RiskScore           *float64
	Likelihood          string
	Result              string
	Exposure            string
}

// Create validates and stores an incident reported by reporterID.
func (s *IncidentService) Create(ctx context.Context, reporterID string, in IncidentInput) (*models.Incident, error) {
	v := validation.Violations{}
	values := map[string]string{
		"site":                strings.TrimSpace(in.Site),
		"incidentArea":        strings.TrimSpace(in.IncidentArea),
		"incidentCategory":    strings.TrimSpace(in.IncidentCategory),
		"shift":               strings.TrimSpace(in.Shift),
		"severity":            strings.TrimSpace(in.Severity),
		"personnelType":       strings.TrimSpace(in.PersonnelType),
		"injuryArea":          strings.TrimSpace(in.InjuryArea),
		"operationalCategory": strings.TrimSpace(in.OperationalCategory),
	}
	validation.RequiredAll(values, v)
	validation.RequiredAll(map[string]string{
		"dateISO":     in.Date,
		"time":        in.Time,
		"description": in.Description,
	}, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}
	validation.MaxLenAll(values, models.MaxValueLen, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}

	occurredAt, err := s.occurredAt(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	score, err := riskScoreOf(in)
	if err != nil {
		return nil, err
	}

	inc := models.Incident{
		ReporterID:          reporterID,
		Site:                values["site"],
		OccurredAt:          occurredAt,
		IncidentArea:        values["incidentArea"],
		IncidentCategory:    values["incidentCategory"],
		Shift:               values["shift"],
		Severity:            values["severity"],
		PersonnelType:       values["personnelType"],
		InjuryArea:          values["injuryArea"],
		OperationalCategory: values["operationalCategory"],
		Description:         in.Description,
		RiskScore:           score,
	}
	if err := s.db.WithContext(ctx).Create(&inc).Error; err != nil {
		return nil, err
	}
	return &inc, nil
}

// occurredAt joins the date part and the time of day in the service location.
func (s *IncidentService) occurredAt(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if len(date) > 10 {
		date = date[:10]
	}
	value := date + "T" + strings.TrimSpace(clock)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func riskScoreOf(in IncidentInput) (*int, error) {
	if in.RiskScore != nil {
		f := *in.RiskScore
		v := validation.Violations{}
		validation.RangeFloat("riskScore", f, 0, risk.MaxScore, v)
		if f != math.Trunc(f) {
			validation.Invalid("riskScore", v)
		}
		if !v.Empty() {
			return nil, invalid("", v)
		}
		score := int(f)
		return &score, nil
	}
	if in.Likelihood == "" && in.Result == "" && in.Exposure == "" {
		return nil, nil
	}
	score := risk.Score(in.Likelihood, in.Result, in.Exposure)
	if score == 0 {
		v := validation.Violations{}
		for field, key := range map[string]string{"likelihood": in.Likelihood, "result": in.Result, "exposure": in.Exposure} {
			validation.Required(field, key, v)
		}
		if v.Empty() {
			validation.Invalid("risk", v)
		}
		return nil, invalid("Invalid fields", v)
	}
	return &score, nil
}

// List returns the newest incidents with their reporter.
func (s *IncidentService) List(ctx context.Context, limit int) ([]models.Incident, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var items []models.Incident
	err := s.db.WithContext(ctx).
		Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
