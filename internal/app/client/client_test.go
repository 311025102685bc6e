package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"medtracker/internal/app/client/config"
	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/periodicity"
	"medtracker/internal/domain/reminder"
	"medtracker/internal/domain/user"
)

// fakeBackend - минимальный сервер с лекарствами и предстоящими дозами.
type fakeBackend struct {
	upcoming     atomic.Value
	upcomingHits atomic.Int32
	token        string
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/auth", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": b.token})
	})
	mux.HandleFunc("/medications", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}
		switch r.Method {
		case http.MethodPost:
			var req medication.CreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusCreated, map[string]any{"medication": map[string]any{
				"id":                "m1",
				"name":              req.Name,
				"dosage":            req.Dosage,
				"periodicityType":   req.PeriodicityType,
				"periodicity":       req.Periodicity,
				"validity":          req.Validity,
				"quantityAvailable": req.QuantityAvailable,
			}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"medications": []any{}})
		}
	})
	mux.HandleFunc("/scheduled-doses/upcoming", func(w http.ResponseWriter, r *http.Request) {
		b.upcomingHits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"doses": b.upcoming.Load()})
	})
	return mux
}

func newTestApp(t *testing.T, backend *fakeBackend, physical bool) *App {
	t.Helper()
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		Env:            config.EnvLocal,
		ServerAddress:  strings.TrimPrefix(srv.URL, "http://"),
		ConfigDir:      dir,
		TokenPath:      filepath.Join(dir, "token"),
		DataPath:       filepath.Join(dir, "medtracker.db"),
		DeviceIDPath:   filepath.Join(dir, "device_id"),
		Locale:         "pt-BR",
		SyncInterval:   300,
		StepTimeout:    5 * time.Second,
		DeepLinkScheme: "myapp",
		DevicePlatform: reminder.PlatformAndroid,
		DevicePhysical: physical,
	}

	app, err := New(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestApp_LoginCreateSchedulesReminders(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{token: testToken(t, time.Now().Add(time.Hour))}
	future := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	backend.upcoming.Store([]map[string]any{
		{"id": "d1", "medication_id": "m1", "medication_name": "Dipirona", "scheduledAt": future},
		{"id": "d0", "medication_id": "m1", "medication_name": "Dipirona", "scheduledAt": time.Now().Add(-time.Hour)},
	})

	app := newTestApp(t, backend, true)
	require.NoError(t, app.Notifications().SetPermission(ctx, reminder.PermissionGranted))

	session, err := app.Users().Login(ctx, user.Credentials{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.Subject)

	med, err := app.Medications().Create(ctx, medication.CreateRequest{
		Name:              "Dipirona",
		Dosage:            "2",
		PeriodicityType:   periodicity.TypeFixedTimes,
		Periodicity:       "08:00,20:00",
		Validity:          time.Now().AddDate(1, 0, 0),
		QuantityAvailable: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", med.ID)

	cached, err := app.Medications().ListCached(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)

	reminders, err := app.Notifications().List(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "dose-d1", reminders[0].Identifier)
	assert.Equal(t, "Não se esqueça de tomar Dipirona.", reminders[0].Body)
	assert.Equal(t, "myapp://medicine/m1", reminders[0].Payload.URL)
	assert.True(t, future.Equal(reminders[0].FireAt))

	ch, err := app.Notifications().Channel(ctx, reminder.ChannelID)
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, reminder.ImportanceHigh, ch.Importance)

	passes, err := app.Journal().RecentPasses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, 1, passes[0].Scheduled)
	assert.Equal(t, 1, passes[0].Skipped)
}

func TestApp_SyncRemindersReplacesPreviousSet(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{token: "t"}
	first := time.Now().Add(time.Hour)
	backend.upcoming.Store([]map[string]any{
		{"id": "a", "medication_id": "m1", "medication_name": "A", "scheduledAt": first},
		{"id": "b", "medication_id": "m1", "medication_name": "A", "scheduledAt": first.Add(time.Hour)},
	})

	app := newTestApp(t, backend, true)
	require.NoError(t, app.Notifications().SetPermission(ctx, reminder.PermissionGranted))

	_, err := app.SyncReminders(ctx)
	require.NoError(t, err)

	backend.upcoming.Store([]map[string]any{
		{"id": "c", "medication_id": "m2", "medication_name": "C", "scheduledAt": first},
	})
	result, err := app.SyncReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Cancelled)
	assert.Equal(t, 1, result.Scheduled)

	reminders, err := app.Notifications().List(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "dose-c", reminders[0].Identifier)
}

func TestApp_SyncRemindersOnEmulator(t *testing.T) {
	backend := &fakeBackend{token: "t"}
	backend.upcoming.Store([]map[string]any{})
	app := newTestApp(t, backend, false)

	_, err := app.SyncReminders(context.Background())
	assert.ErrorIs(t, err, reminder.ErrNotPhysicalDevice)
	assert.Zero(t, backend.upcomingHits.Load())
}

func TestApp_SyncRemindersWithoutPermission(t *testing.T) {
	backend := &fakeBackend{token: "t"}
	backend.upcoming.Store([]map[string]any{})
	app := newTestApp(t, backend, true)

	_, err := app.SyncReminders(context.Background())
	assert.ErrorIs(t, err, reminder.ErrPermissionDenied)
	assert.Zero(t, backend.upcomingHits.Load())
}

func TestApp_UnauthorizedDropsToken(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{token: "valid"}
	app := newTestApp(t, backend, true)

	require.NoError(t, app.tokens.Save("stale"))

	_, err := app.Medications().List(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	token, err := app.tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = app.Users().Status()
	assert.ErrorIs(t, err, user.ErrNotLoggedIn)
}
