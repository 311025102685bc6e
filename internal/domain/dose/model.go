package dose

import (
	"fmt"
	"strings"
	"time"
)

// Status - состояние запланированной дозы на сервере.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusTaken   Status = "TAKEN"
	StatusSnoozed Status = "SNOOZED"
	StatusMissed  Status = "MISSED"
)

// HistoryStatuses - статусы, которые показываются в истории по умолчанию.
var HistoryStatuses = []Status{StatusTaken, StatusSnoozed, StatusMissed}

// Validate проверяет, что статус известен.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusTaken, StatusSnoozed, StatusMissed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
}

// ParseStatuses разбирает список статусов через запятую.
func ParseStatuses(raw string) ([]Status, error) {
	var statuses []Status
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		s := Status(part)
		if err := s.Validate(); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// Occurrence - конкретный будущий прием, рассчитанный сервером.
// Живет только в рамках одного прохода синхронизации напоминаний.
type Occurrence struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	ScheduledAt    time.Time `json:"scheduledAt"`
}

// MedicationRef - краткие данные лекарства внутри дозы.
type MedicationRef struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
}

// ScheduledDose - доза из истории приема.
type ScheduledDose struct {
	ID          string        `json:"id"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	Status      Status        `json:"status"`
	Medication  MedicationRef `json:"medication"`
}

// IsOverdue сообщает, что ожидающая доза уже должна была быть принята.
func (d ScheduledDose) IsOverdue(now time.Time) bool {
	return d.Status == StatusPending && d.ScheduledAt.Before(now)
}

// HistoryFilter - параметры запроса истории.
type HistoryFilter struct {
	Page     int
	Statuses []Status
}
