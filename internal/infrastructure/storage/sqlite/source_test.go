package sqlite

import (
	"context"

	"medtracker/internal/domain/dose"
)

type staticSource []dose.Occurrence

func (s staticSource) FetchUpcomingDoses(context.Context) ([]dose.Occurrence, error) {
	return s, nil
}
