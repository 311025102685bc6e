package agent

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"medtracker/internal/domain/reminder"
	"medtracker/internal/i18n"
)

var testNow = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

type memoryStore struct {
	mu        sync.Mutex
	reminders map[string]reminder.Reminder
	dueErr    error
	cancelErr error
	passes    []reminder.PassRecord
}

func newMemoryStore(rs ...reminder.Reminder) *memoryStore {
	s := &memoryStore{reminders: make(map[string]reminder.Reminder)}
	for _, r := range rs {
		s.reminders[r.Identifier] = r
	}
	return s
}

func (s *memoryStore) Due(_ context.Context, now time.Time) ([]reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dueErr != nil {
		return nil, s.dueErr
	}
	var due []reminder.Reminder
	for _, r := range s.reminders {
		if !r.FireAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (s *memoryStore) Cancel(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelErr != nil {
		return s.cancelErr
	}
	delete(s.reminders, identifier)
	return nil
}

func (s *memoryStore) List(context.Context) ([]reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reminder.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		out = append(out, r)
	}
	return out, nil
}

func (s *memoryStore) RecentPasses(context.Context, int) ([]reminder.PassRecord, error) {
	return s.passes, nil
}

func (s *memoryStore) has(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reminders[identifier]
	return ok
}

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
	failFor   string
}

func (d *recordingDeliverer) Deliver(_ context.Context, r reminder.Reminder) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.Identifier == d.failFor {
		return errors.New("terminal closed")
	}
	d.delivered = append(d.delivered, r.Identifier)
	return nil
}

func newTestDispatcher(store DueStore, deliverer Deliverer) *Dispatcher {
	d := NewDispatcher(store, deliverer, time.Minute, slog.Default())
	d.now = func() time.Time { return testNow }
	return d
}

func TestDispatcher_DispatchOnce(t *testing.T) {
	store := newMemoryStore(
		reminder.Reminder{Identifier: "dose-past", FireAt: testNow.Add(-time.Minute)},
		reminder.Reminder{Identifier: "dose-now", FireAt: testNow},
		reminder.Reminder{Identifier: "dose-future", FireAt: testNow.Add(time.Minute)},
	)
	deliverer := &recordingDeliverer{}

	delivered, err := newTestDispatcher(store, deliverer).DispatchOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, delivered)
	assert.ElementsMatch(t, []string{"dose-past", "dose-now"}, deliverer.delivered)
	assert.False(t, store.has("dose-past"))
	assert.False(t, store.has("dose-now"))
	assert.True(t, store.has("dose-future"))
}

func TestDispatcher_FailedDeliveryIsRetried(t *testing.T) {
	store := newMemoryStore(
		reminder.Reminder{Identifier: "dose-1", FireAt: testNow.Add(-time.Minute)},
		reminder.Reminder{Identifier: "dose-2", FireAt: testNow.Add(-time.Minute)},
	)
	deliverer := &recordingDeliverer{failFor: "dose-1"}
	d := newTestDispatcher(store, deliverer)

	delivered, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.True(t, store.has("dose-1"))
	assert.False(t, store.has("dose-2"))

	deliverer.failFor = ""
	delivered, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.False(t, store.has("dose-1"))
}

func TestDispatcher_StoreErrors(t *testing.T) {
	t.Run("due", func(t *testing.T) {
		store := newMemoryStore()
		store.dueErr = errors.New("database is locked")

		_, err := newTestDispatcher(store, &recordingDeliverer{}).DispatchOnce(context.Background())
		assert.ErrorContains(t, err, "database is locked")
	})

	t.Run("cancel", func(t *testing.T) {
		store := newMemoryStore(reminder.Reminder{Identifier: "dose-1", FireAt: testNow})
		store.cancelErr = errors.New("readonly database")

		delivered, err := newTestDispatcher(store, &recordingDeliverer{}).DispatchOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, delivered)
	})
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	store := newMemoryStore(reminder.Reminder{Identifier: "dose-1", FireAt: testNow})
	deliverer := &recordingDeliverer{}
	d := newTestDispatcher(store, deliverer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return !store.has("dose-1") }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestTerminalDeliverer(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	d := NewTerminalDeliverer(&buf, i18n.New("en"))

	err := d.Deliver(context.Background(), reminder.Reminder{
		Identifier: "dose-1",
		FireAt:     time.Date(2026, time.January, 10, 8, 30, 0, 0, time.Local),
		Title:      "Time for your medication!",
		Body:       "Don't forget to take Dipirona.",
		Payload:    reminder.Payload{URL: "myapp://medicine/m1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "08:30 Time for your medication!\n  Don't forget to take Dipirona.\n  myapp://medicine/m1\n", buf.String())
}
