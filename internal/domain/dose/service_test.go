package dose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockHistoryBackend struct {
	mock.Mock
}

func (m *MockHistoryBackend) ListScheduledDoses(ctx context.Context, filter HistoryFilter) ([]ScheduledDose, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ScheduledDose), args.Error(1)
}

func TestService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		backend := new(MockHistoryBackend)
		expected := HistoryFilter{Page: 1, Statuses: HistoryStatuses}
		backend.On("ListScheduledDoses", ctx, expected).
			Return([]ScheduledDose{{ID: "d1", Status: StatusTaken}}, nil)

		svc := NewService(backend, slog.Default())
		doses, err := svc.History(ctx, HistoryFilter{})

		require.NoError(t, err)
		assert.Len(t, doses, 1)
		backend.AssertExpectations(t)
	})

	t.Run("explicit filter is passed through", func(t *testing.T) {
		backend := new(MockHistoryBackend)
		filter := HistoryFilter{Page: 3, Statuses: []Status{StatusMissed}}
		backend.On("ListScheduledDoses", ctx, filter).Return([]ScheduledDose{}, nil)

		svc := NewService(backend, slog.Default())
		_, err := svc.History(ctx, filter)

		require.NoError(t, err)
		backend.AssertExpectations(t)
	})

	t.Run("negative page", func(t *testing.T) {
		svc := NewService(new(MockHistoryBackend), slog.Default())
		_, err := svc.History(ctx, HistoryFilter{Page: -1})
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("backend error", func(t *testing.T) {
		backend := new(MockHistoryBackend)
		backend.On("ListScheduledDoses", ctx, mock.Anything).Return(nil, errors.New("boom"))

		svc := NewService(backend, slog.Default())
		_, err := svc.History(ctx, HistoryFilter{})
		assert.Error(t, err)
	})
}
