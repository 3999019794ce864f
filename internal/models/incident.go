package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column limits shared by the schema and input validation.
const (
	MaxValueLen    = 128
	MaxCurrencyLen = 8
	// MaxCostAmount is the largest value a NUMERIC(12,2) column holds.
	MaxCostAmount = 9999999999.99
)

// Incident is a reported health and safety event. Categorical fields hold the
// lookup value strings as they were at report time, not references, so later
// lookup edits never rewrite history. Incidents are never updated.
type Incident struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt           time.Time `gorm:"index" json:"createdAt"`
	ReporterID          string    `gorm:"size:36;not null;index" json:"reporterId"`
	Reporter            *User     `gorm:"foreignKey:ReporterID" json:"-"`
	Site                string    `gorm:"size:128;not null" json:"site"`
	OccurredAt          time.Time `gorm:"not null" json:"occurredAt"`
	IncidentArea        string    `gorm:"size:128;not null" json:"incidentArea"`
	IncidentCategory    string    `gorm:"size:128;not null" json:"incidentCategory"`
	Shift               string    `gorm:"size:128;not null" json:"shift"`
	Severity            string    `gorm:"size:128;not null" json:"severity"`
	PersonnelType       string    `gorm:"size:128;not null" json:"personnelType"`
	InjuryArea          string    `gorm:"size:128;not null" json:"injuryArea"`
	OperationalCategory string    `gorm:"size:128;not null" json:"operationalCategory"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	RiskScore           *int      `json:"riskScore"`
}

func (Incident) TableName() string { return "incidents" }

func (i *Incident) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NewCapa returns a CAPA carrying a copy of the incident's snapshot fields.
func (i *Incident) NewCapa() *Capa {
	return &Capa{
		IncidentID:          i.ID,
		Site:                i.Site,
		OccurredAt:          i.OccurredAt,
		IncidentArea:        i.IncidentArea,
		IncidentCategory:    i.IncidentCategory,
		Shift:               i.Shift,
		Severity:            i.Severity,
		PersonnelType:       i.PersonnelType,
		OperationalCategory: i.OperationalCategory,
	}
}

// Capa is a corrective and preventive action raised against an incident.
// The incident fields are denormalized at creation time.
type Capa struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt           time.Time `gorm:"index" json:"createdAt"`
	IncidentID          string    `gorm:"size:36;not null;index" json:"incidentId"`
	Incident            *Incident `gorm:"foreignKey:IncidentID" json:"-"`
	AssignedToID        *string   `gorm:"size:36;index" json:"assignedToId"`
	AssignedTo          *User     `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
	Site                string    `gorm:"size:128;not null" json:"site"`
	OccurredAt          time.Time `gorm:"not null" json:"occurredAt"`
	IncidentArea        string    `gorm:"size:128;not null" json:"incidentArea"`
	IncidentCategory    string    `gorm:"size:128;not null" json:"incidentCategory"`
	Shift               string    `gorm:"size:128;not null" json:"shift"`
	Severity            string    `gorm:"size:128;not null" json:"severity"`
	PersonnelType       string    `gorm:"size:128;not null" json:"personnelType"`
	OperationalCategory string    `gorm:"size:128;not null" json:"operationalCategory"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	ActionTaken         string    `gorm:"type:text;not null" json:"actionTaken"`
	CostAmount          *float64  `gorm:"type:numeric(12,2)" json:"costAmount"`
	CostCurrency        *string   `gorm:"size:8" json:"costCurrency"`
}

func (Capa) TableName() string { return "capas" }

func (c *Capa) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &RouteAccess{}, &LookupItem{}, &Incident{}, &Capa{}}
}
