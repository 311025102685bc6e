package reminder

import (
	"time"

	domain "medtracker/internal/domain/reminder"
)

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Reminders []reminderView `json:"reminders"`
	Count     int            `json:"count"`
}

type reminderView struct {
	Identifier   string    `json:"identifier" example:"dose-42"`
	FireAt       time.Time `json:"fire_at"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	MedicationID string    `json:"medication_id"`
	URL          string    `json:"url" example:"myapp://medicine/7"`
}

func toView(r domain.Reminder) reminderView {
	return reminderView{
		Identifier:   r.Identifier,
		FireAt:       r.FireAt,
		Title:        r.Title,
		Body:         r.Body,
		MedicationID: r.Payload.MedicationID,
		URL:          r.Payload.URL,
	}
}

type syncOutput struct {
	Body *domain.SyncResult
}

type passesInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10" doc:"Сколько последних проходов вернуть"`
}

type passesOutput struct {
	Body passesResponse
}

type passesResponse struct {
	Passes []domain.PassRecord `json:"passes"`
}
