package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/reminder"
)

type countingSyncer struct {
	calls  atomic.Int32
	result *reminder.SyncResult
	err    error
}

func (s *countingSyncer) SyncReminders(context.Context) (*reminder.SyncResult, error) {
	s.calls.Add(1)
	return s.result, s.err
}

type cachedMedications []medication.Medication

func (c cachedMedications) ListCached(context.Context) ([]medication.Medication, error) {
	return c, nil
}

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestAgent_Run(t *testing.T) {
	addr := freeAddress(t)
	store := newMemoryStore(reminder.Reminder{Identifier: "dose-1", FireAt: time.Now().Add(-time.Minute)})
	syncer := &countingSyncer{result: &reminder.SyncResult{PassID: "p1"}}
	deliverer := &recordingDeliverer{}

	a := New(Config{
		Address:          addr,
		DispatchInterval: 20 * time.Millisecond,
		SyncPeriod:       time.Hour,
	}, store, syncer, cachedMedications{{ID: "m1", Name: "Ibuprofen"}}, deliverer, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/health", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/medications", addr))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"name":"Ibuprofen"`)

	require.Eventually(t, func() bool { return !store.has("dose-1") }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, time.Second, 10*time.Millisecond,
		"первый проход выполняется сразу при старте")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("agent did not stop")
	}
}

func TestAgent_RunFailsOnBusyAddress(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	a := New(Config{
		Address:          l.Addr().String(),
		DispatchInterval: time.Hour,
		SyncPeriod:       time.Hour,
	}, newMemoryStore(), &countingSyncer{result: &reminder.SyncResult{}}, cachedMedications{}, &recordingDeliverer{}, slog.Default())

	err = a.Run(context.Background())
	assert.ErrorContains(t, err, "agent API")
}

func TestAgent_syncOnce(t *testing.T) {
	tests := []struct {
		name   string
		result *reminder.SyncResult
		err    error
	}{
		{name: "complete", result: &reminder.SyncResult{Scheduled: 2}},
		{name: "incomplete", result: &reminder.SyncResult{Failed: 1}},
		{name: "permission denied", err: reminder.ErrPermissionDenied},
		{name: "incomplete flush", err: fmt.Errorf("%w: 1 of 3", reminder.ErrIncompleteFlush)},
		{name: "cancelled", err: context.Canceled},
		{name: "failure", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &countingSyncer{result: tt.result, err: tt.err}
			a := New(Config{DispatchInterval: time.Minute, SyncPeriod: time.Minute}, newMemoryStore(), syncer, cachedMedications{}, &recordingDeliverer{}, slog.Default())

			assert.NotPanics(t, func() { a.syncOnce(context.Background()) })
			assert.EqualValues(t, 1, syncer.calls.Load())
		})
	}
}
