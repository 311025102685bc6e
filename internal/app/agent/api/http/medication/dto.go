package medication

import (
	"time"

	domain "medtracker/internal/domain/medication"
	"medtracker/internal/domain/periodicity"
	"medtracker/internal/i18n"
)

type listInput struct {
	Type periodicity.Type `query:"type" doc:"Показать только лекарства с этим типом периодичности"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Medications []medicationView `json:"medications"`
	Count       int              `json:"count"`
}

type medicationView struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Dosage               string           `json:"dosage"`
	PeriodicityType      periodicity.Type `json:"periodicity_type"`
	PeriodicityTypeLabel string           `json:"periodicity_type_label"`
	Periodicity          string           `json:"periodicity" example:"08:00,20:00"`
	PeriodicityLabel     string           `json:"periodicity_label" example:"at 08:00, 20:00"`
	Validity             *time.Time       `json:"validity,omitempty"`
	ValidityLabel        string           `json:"validity_label,omitempty" example:"expires in 12 days"`
	QuantityAvailable    *int             `json:"quantity_available,omitempty"`
	LowStock             bool             `json:"low_stock"`
}

func toView(m domain.Medication, loc *i18n.Locale, now time.Time) medicationView {
	v := medicationView{
		ID:                   m.ID,
		Name:                 m.Name,
		Dosage:               m.Dosage,
		PeriodicityType:      m.PeriodicityType,
		PeriodicityTypeLabel: m.PeriodicityType.DisplayName(loc),
		Periodicity:          m.Periodicity,
		PeriodicityLabel:     m.PeriodicityLabel(loc),
		QuantityAvailable:    m.QuantityAvailable,
		LowStock:             m.IsLowStock(),
	}
	if !m.Validity.IsZero() {
		validity := m.Validity
		v.Validity = &validity
		v.ValidityLabel = m.ValidityLabel(loc, now)
	}
	return v
}
