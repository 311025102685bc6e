package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/periodicity"
	"medtracker/internal/domain/reminder"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "medtracker.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func TestMedicationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicationRepository(newTestStorage(t).DB(), slog.Default())

	validity := time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)
	meds := []medication.Medication{
		{
			ID: "m2", Name: "Zinc", Dosage: "1",
			PeriodicityType: periodicity.TypeInterval, Periodicity: "8",
			Validity: validity, QuantityAvailable: intPtr(3),
		},
		{
			ID: "m1", Name: "Aspirin", Dosage: "2",
			PeriodicityType: periodicity.TypeFixedTimes, Periodicity: "08:00,20:00",
		},
	}

	t.Run("replace keeps server order", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, meds))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "m2", got[0].ID)
		assert.True(t, validity.Equal(got[0].Validity))
		require.NotNil(t, got[0].QuantityAvailable)
		assert.Equal(t, 3, *got[0].QuantityAvailable)
		assert.Equal(t, periodicity.TypeInterval, got[0].PeriodicityType)
		assert.Nil(t, got[1].QuantityAvailable)
		assert.True(t, got[1].Validity.IsZero())
	})

	t.Run("save appends and updates", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, medication.Medication{ID: "m3", Name: "Vitamin D"}))
		require.NoError(t, repo.Save(ctx, medication.Medication{ID: "m1", Name: "Aspirin 500"}))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"m2", "m1", "m3"}, []string{got[0].ID, got[1].ID, got[2].ID})
		assert.Equal(t, "Aspirin 500", got[1].Name)
	})

	t.Run("add stock", func(t *testing.T) {
		require.NoError(t, repo.AddStock(ctx, "m2", 10))
		require.NoError(t, repo.AddStock(ctx, "m3", 4))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 13, *got[0].QuantityAvailable)
		assert.Equal(t, 4, *got[2].QuantityAvailable)

		assert.ErrorIs(t, repo.AddStock(ctx, "missing", 1), medication.ErrNotFound)
	})

	t.Run("replace with empty clears cache", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, nil))
		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestNotificationStore_Permission(t *testing.T) {
	ctx := context.Background()
	db := newTestStorage(t).DB()

	t.Run("no prompter keeps undetermined", func(t *testing.T) {
		store := NewNotificationStore(db, slog.Default())
		status, err := store.PermissionStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminder.PermissionUndetermined, status)

		status, err = store.RequestPermission(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminder.PermissionUndetermined, status)
	})

	t.Run("prompt failure", func(t *testing.T) {
		store := NewNotificationStore(db, slog.Default(), WithPrompter(func(context.Context) (bool, error) {
			return false, errors.New("no terminal")
		}))
		_, err := store.RequestPermission(ctx)
		assert.Error(t, err)
	})

	t.Run("denial is remembered", func(t *testing.T) {
		prompts := 0
		store := NewNotificationStore(db, slog.Default(), WithPrompter(func(context.Context) (bool, error) {
			prompts++
			return false, nil
		}))

		status, err := store.RequestPermission(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminder.PermissionDenied, status)

		status, err = store.RequestPermission(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminder.PermissionDenied, status)
		assert.Equal(t, 1, prompts)
	})

	t.Run("explicit grant", func(t *testing.T) {
		store := NewNotificationStore(db, slog.Default())
		require.NoError(t, store.SetPermission(ctx, reminder.PermissionGranted))

		status, err := store.PermissionStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminder.PermissionGranted, status)
	})
}

func TestNotificationStore_Channel(t *testing.T) {
	ctx := context.Background()
	store := NewNotificationStore(newTestStorage(t).DB(), slog.Default())

	missing, err := store.Channel(ctx, reminder.ChannelID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ch := reminder.Channel{
		ID:               reminder.ChannelID,
		Name:             "Medication reminders",
		Importance:       reminder.ImportanceHigh,
		VibrationPattern: []time.Duration{0, 250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		LightColor:       "#FF231F7C",
	}
	require.NoError(t, store.ConfigureChannel(ctx, ch))
	// повторная настройка перезаписывает канал
	require.NoError(t, store.ConfigureChannel(ctx, ch))

	got, err := store.Channel(ctx, reminder.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, &ch, got)
}

func TestNotificationStore_Reminders(t *testing.T) {
	ctx := context.Background()
	store := NewNotificationStore(newTestStorage(t).DB(), slog.Default())
	base := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)

	later := reminder.Reminder{
		Identifier: "dose-2",
		FireAt:     base.Add(2 * time.Hour),
		Title:      "Time for your medication!",
		Body:       "Don't forget to take Zinc.",
		ChannelID:  reminder.ChannelID,
		Payload:    reminder.Payload{DoseID: "2", MedicationID: "m2", URL: "myapp://medicine/m2"},
	}
	sooner := later
	sooner.Identifier = "dose-1"
	sooner.FireAt = base.Add(time.Hour)
	sooner.Payload.DoseID = "1"

	require.NoError(t, store.Schedule(ctx, later))
	require.NoError(t, store.Schedule(ctx, sooner))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dose-1", all[0].Identifier)
	assert.True(t, sooner.FireAt.Equal(all[0].FireAt))
	assert.Equal(t, later.Payload, all[1].Payload)

	scheduled, err := store.GetAllScheduled(ctx)
	require.NoError(t, err)
	assert.Len(t, scheduled, 2)

	due, err := store.Due(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "dose-1", due[0].Identifier)

	require.NoError(t, store.Cancel(ctx, "dose-1"))
	require.NoError(t, store.Cancel(ctx, "dose-1"))

	all, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "dose-2", all[0].Identifier)
}

func TestNotificationStore_WithScheduler(t *testing.T) {
	ctx := context.Background()
	db := newTestStorage(t).DB()
	store := NewNotificationStore(db, slog.Default())
	journal := NewSyncJournal(db)
	require.NoError(t, store.SetPermission(ctx, reminder.PermissionGranted))
	require.NoError(t, store.Schedule(ctx, reminder.Reminder{Identifier: "dose-stale", FireAt: time.Now().Add(time.Hour)}))

	source := staticSource{
		{ID: "a", MedicationID: "m1", MedicationName: "Ibuprofen", ScheduledAt: time.Now().Add(2 * time.Minute)},
		{ID: "b", MedicationID: "m2", MedicationName: "Aspirin", ScheduledAt: time.Now().Add(-time.Minute)},
	}

	capability := &reminder.Capability{ChannelID: reminder.ChannelID}
	s, err := reminder.NewScheduler(capability, store, source, slog.Default(), reminder.Config{}, reminder.WithJournal(journal))
	require.NoError(t, err)

	result, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scheduled)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "dose-a", all[0].Identifier)

	passes, err := journal.RecentPasses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, result.PassID, passes[0].PassID)
	assert.Equal(t, 1, passes[0].Cancelled)
	assert.Equal(t, 1, passes[0].Skipped)
	assert.True(t, passes[0].Succeeded())
}

func TestSyncJournal_RecentPasses(t *testing.T) {
	ctx := context.Background()
	journal := NewSyncJournal(newTestStorage(t).DB())
	base := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"p1", "p2", "p3"} {
		start := base.Add(time.Duration(i) * time.Minute)
		var passErr error
		if id == "p2" {
			passErr = reminder.ErrSourceFetch
		}
		require.NoError(t, journal.RecordPass(ctx, &reminder.SyncResult{
			PassID:    id,
			StartTime: start,
			EndTime:   start.Add(time.Second),
			Scheduled: i,
		}, passErr))
	}

	passes, err := journal.RecentPasses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, "p3", passes[0].PassID)
	assert.Equal(t, "p2", passes[1].PassID)
	assert.Equal(t, reminder.ErrSourceFetch.Error(), passes[1].Error)
	assert.False(t, passes[1].Succeeded())

	all, err := journal.RecentPasses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
