package medication

import (
	"time"

	"medtracker/internal/domain/periodicity"
	"medtracker/internal/domain/validity"
	"medtracker/internal/i18n"
)

// Medication - лекарство пользователя в том виде, в каком его отдает backend.
type Medication struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Dosage            string           `json:"dosage"`
	PeriodicityType   periodicity.Type `json:"periodicityType"`
	Periodicity       string           `json:"periodicity"`
	Validity          time.Time        `json:"validity"`
	QuantityAvailable *int             `json:"quantityAvailable"`
}

// PeriodicityLabel возвращает подпись режима приема. Старые записи без
// типа и некорректные строки показываются как есть.
func (m Medication) PeriodicityLabel(loc *i18n.Locale) string {
	return periodicity.Describe(loc, m.Periodicity, m.PeriodicityType)
}

// ValidityLabel возвращает подпись срока годности относительно now.
func (m Medication) ValidityLabel(loc *i18n.Locale, now time.Time) string {
	return validity.Label(loc, m.Validity, now)
}

// IsLowStock сообщает, что запас подходит к концу.
func (m Medication) IsLowStock() bool {
	return validity.IsLowStock(m.QuantityAvailable)
}

// CreateRequest - данные формы нового лекарства.
type CreateRequest struct {
	Name              string           `json:"name" validate:"required,max=255"`
	Dosage            string           `json:"dosage" validate:"required,max=255"`
	PeriodicityType   periodicity.Type `json:"periodicityType" validate:"required,oneof=INTERVAL FIXED_TIMES"`
	Periodicity       string           `json:"periodicity" validate:"required"`
	Validity          time.Time        `json:"validity" validate:"required"`
	QuantityAvailable int              `json:"quantityAvailable" validate:"min=0"`
}

// AddStockRequest - тело запроса пополнения запаса.
type AddStockRequest struct {
	Quantity int `json:"quantity"`
}
